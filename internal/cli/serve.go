package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/StephanAkkerman/Issue-Bot/internal/config"
	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
	"github.com/StephanAkkerman/Issue-Bot/internal/event"
	ghinfra "github.com/StephanAkkerman/Issue-Bot/internal/infrastructure/github"
	slackinfra "github.com/StephanAkkerman/Issue-Bot/internal/infrastructure/slack"
	"github.com/StephanAkkerman/Issue-Bot/internal/service"
	"github.com/google/go-github/v79/github"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		Long: `Socket ModeでSlackに接続し、Issue作成コマンドを待ち受けます。
ラベルは起動時に一度だけ読み込みます。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := cfg.ValidateForServe(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, newLogger(os.Stderr, cfg.Log, cfg.Debug))
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	owner, name, _ := cfg.GitHub.OwnerAndName()
	timeout, _ := cfg.Dialog.TimeoutDuration()

	tracker := ghinfra.NewRepository(github.NewClient(nil).WithAuthToken(cfg.GitHub.Token), owner, name)
	catalog, err := service.LoadCatalog(ctx, tracker, slackinfra.NewEmojiTranslator(), domain.MissingMarkerPolicy(cfg.Catalog.MissingMarker), logger)
	if err != nil {
		return err
	}

	api := slack.New(cfg.Slack.BotToken, slack.OptionAppLevelToken(cfg.Slack.AppToken), slack.OptionDebug(cfg.Debug))
	userAPI := slack.New(cfg.Slack.UserToken, slack.OptionDebug(cfg.Debug))
	auth, err := api.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("Slack認証エラー: %w", err)
	}
	userAuth, err := userAPI.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("Slackユーザートークンの認証エラー: %w", err)
	}
	if userAuth.TeamID != auth.TeamID {
		return fmt.Errorf("slack.user_token のワークスペース (%s) がボットと異なります (%s)", userAuth.Team, auth.Team)
	}
	logger.Info("Slackの認証に成功しました", "bot", auth.User, "user", userAuth.User, "team", auth.Team)

	command := service.Command{
		Prefix: cfg.Command.Prefix,
		Name:   cfg.Command.Name,
		Alias:  cfg.Command.Alias,
	}
	messages := slackinfra.NewMessageRepository(api, userAPI)
	hub := event.NewHub()
	dialog := service.NewIssueDialog(service.DialogOptions{
		Messages: messages,
		Users:    slackinfra.NewUserRepository(api),
		Events:   hub,
		Catalog:  catalog,
		Issues:   service.NewIssueClient(tracker, cfg.GitHub.Repository),
		Usage:    command.Usage(),
		Timeout:  timeout,
		Logger:   logger,
	})
	bot := service.NewBot(hub, dialog, messages, command, logger)

	client := socketmode.New(api)
	listener := slackinfra.NewListener(client, bot, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := client.RunContext(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("Socket Modeエラー: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return listener.Run(gctx)
	})

	logger.Info("コマンドを待ち受けています", "command", command.Usage(), "repository", cfg.GitHub.Repository)
	err = g.Wait()

	// 待機中のダイアログはctxの終了で中断される
	bot.Wait()
	logger.Info("停止しました")

	return err
}
