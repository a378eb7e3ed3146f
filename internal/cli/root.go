package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix は環境変数の接頭辞（例: ISSUEBOT_GITHUB_TOKEN）
const envPrefix = "ISSUEBOT"

// configKeys は環境変数で上書きできる設定キー
var configKeys = map[string]any{
	"github.token":           "",
	"github.repository":      "",
	"slack.bot_token":        "",
	"slack.app_token":        "",
	"slack.user_token":       "",
	"command.prefix":         "!",
	"command.name":           "issue",
	"command.alias":          "",
	"dialog.timeout":         "0",
	"catalog.missing_marker": "fail",
	"log.level":              "info",
	"log.format":             "text",
	"debug":                  false,
}

// NewRootCommand はissuebotのルートコマンドを作成する
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "issuebot",
		Short: "Draft GitHub issues from Slack",
		Long: `issuebot はSlackのチャンネルからGitHubのIssueを作成するボットです。

チャンネルで "!issue <title>" と発言すると本文を尋ね、プレビューを投稿します。
プレビューにラベルの絵文字でリアクションし、✅ で作成、❌ で取り消します。`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(newServeCommand(v))
	rootCmd.AddCommand(newLabelsCommand(v))

	return rootCmd
}

// Execute はルートコマンドを実行する
func Execute() error {
	return NewRootCommand().Execute()
}

func initConfig(v *viper.Viper, cfgFile string) error {
	// .envがあればトークンを読み込む
	_ = godotenv.Load()

	for key, value := range configKeys {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("作業ディレクトリの取得エラー: %w", err)
		}
		v.AddConfigPath(cwd)
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("設定ファイルの読み込みエラー: %w", err)
		}
	}

	return nil
}
