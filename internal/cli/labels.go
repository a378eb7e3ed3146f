package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/StephanAkkerman/Issue-Bot/internal/config"
	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
	ghinfra "github.com/StephanAkkerman/Issue-Bot/internal/infrastructure/github"
	slackinfra "github.com/StephanAkkerman/Issue-Bot/internal/infrastructure/slack"
	"github.com/StephanAkkerman/Issue-Bot/internal/service"
	"github.com/fatih/color"
	"github.com/google/go-github/v79/github"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newLabelsCommand(v *viper.Viper) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Show the label catalog offered as reactions",
		Long: `リポジトリのラベルを読み込み、プレビューに表示されるラベルと
Slackのリアクション名の対応を表示します。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			owner, name, _ := cfg.GitHub.OwnerAndName()

			logger := newLogger(os.Stderr, cfg.Log, cfg.Debug)
			repo := ghinfra.NewRepository(github.NewClient(nil).WithAuthToken(cfg.GitHub.Token), owner, name)

			catalog, err := service.LoadCatalog(cmd.Context(), repo, slackinfra.NewEmojiTranslator(), domain.MissingMarkerPolicy(cfg.Catalog.MissingMarker), logger)
			if err != nil {
				return err
			}

			switch output {
			case "yaml":
				return writeCatalogYAML(cmd.OutOrStdout(), catalog)
			case "text":
				writeCatalogText(cmd.OutOrStdout(), catalog)
				return nil
			default:
				return fmt.Errorf("不明な出力形式: %s (text または yaml)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text or yaml)")

	return cmd
}

type catalogEntry struct {
	Name     string `yaml:"name"`
	Text     string `yaml:"text"`
	Emoji    string `yaml:"emoji"`
	Reaction string `yaml:"reaction"`
}

type catalogDocument struct {
	Labels  []catalogEntry `yaml:"labels"`
	Skipped []string       `yaml:"skipped,omitempty"`
}

func writeCatalogYAML(w io.Writer, catalog *domain.Catalog) error {
	doc := catalogDocument{}
	for _, l := range catalog.Labels() {
		doc.Labels = append(doc.Labels, catalogEntry{
			Name:     l.FullName,
			Text:     l.Text,
			Emoji:    l.EmojiToken,
			Reaction: l.PlatformEmoji,
		})
	}
	for _, s := range catalog.Skipped() {
		doc.Skipped = append(doc.Skipped, s.Name)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("YAML出力エラー: %w", err)
	}
	return enc.Close()
}

func writeCatalogText(w io.Writer, catalog *domain.Catalog) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s (%d)\n", cyan("Labels"), catalog.Len())
	for _, l := range catalog.Labels() {
		fmt.Fprintf(w, "  %-24s %s  %s\n", l.FullName, green(":"+l.PlatformEmoji+":"), l.Text)
	}

	if skipped := catalog.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(w, "\n%s (%d)\n", yellow("Skipped"), len(skipped))
		for _, s := range skipped {
			fmt.Fprintf(w, "  %s\n", s.Name)
		}
	}
}
