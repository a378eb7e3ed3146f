package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
	"github.com/spf13/viper"
)

// Config はボット全体の設定
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Slack   SlackConfig   `mapstructure:"slack"`
	Command CommandConfig `mapstructure:"command"`
	Dialog  DialogConfig  `mapstructure:"dialog"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Log     LogConfig     `mapstructure:"log"`
	Debug   bool          `mapstructure:"debug"`
}

// GitHubConfig はIssueを作成するリポジトリの設定
type GitHubConfig struct {
	Token      string `mapstructure:"token"`
	Repository string `mapstructure:"repository"` // "owner/name"
}

// SlackConfig はSlackアプリの設定
type SlackConfig struct {
	BotToken string `mapstructure:"bot_token"` // xoxb-
	AppToken string `mapstructure:"app_token"` // xapp-（Socket Mode用）
	// UserToken は他のユーザーのメッセージを削除するために使う
	UserToken string `mapstructure:"user_token"`
}

// CommandConfig はコマンドの呼び出し方
type CommandConfig struct {
	Prefix string `mapstructure:"prefix"`
	Name   string `mapstructure:"name"`
	Alias  string `mapstructure:"alias"`
}

// DialogConfig はダイアログの設定
type DialogConfig struct {
	Timeout string `mapstructure:"timeout"` // "0"の場合は無制限
}

// CatalogConfig はラベルカタログの設定
type CatalogConfig struct {
	MissingMarker string `mapstructure:"missing_marker"` // "fail" または "skip"
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load はviperに読み込まれた設定を取り出す
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("設定の読み込みエラー: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults は未設定の項目に既定値を設定する
func applyDefaults(cfg *Config) {
	if cfg.Command.Prefix == "" {
		cfg.Command.Prefix = "!"
	}
	if cfg.Command.Name == "" {
		cfg.Command.Name = "issue"
	}
	if cfg.Dialog.Timeout == "" {
		cfg.Dialog.Timeout = "0"
	}
	if cfg.Catalog.MissingMarker == "" {
		cfg.Catalog.MissingMarker = string(domain.MissingMarkerFail)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// Validate はラベルの読み込みに必要な設定を検証する
func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return fmt.Errorf("github.token が設定されていません")
	}
	if _, _, err := c.GitHub.OwnerAndName(); err != nil {
		return err
	}

	if !domain.MissingMarkerPolicy(c.Catalog.MissingMarker).IsValid() {
		return fmt.Errorf("catalog.missing_marker が無効です: %s (fail または skip)", c.Catalog.MissingMarker)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("log.format が無効です: %s (text または json)", c.Log.Format)
	}

	return nil
}

// ValidateForServe はボットの起動に必要な設定を検証する
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Slack.BotToken == "" {
		return fmt.Errorf("slack.bot_token が設定されていません")
	}
	if !strings.HasPrefix(c.Slack.AppToken, "xapp-") {
		return fmt.Errorf("slack.app_token にはアプリレベルトークン (xapp-) を指定してください")
	}
	if !strings.HasPrefix(c.Slack.UserToken, "xoxp-") {
		return fmt.Errorf("slack.user_token にはユーザートークン (xoxp-) を指定してください。ボットトークンではユーザーのメッセージを削除できません")
	}
	if strings.ContainsAny(c.Command.Prefix+c.Command.Name+c.Command.Alias, " \t\n") {
		return fmt.Errorf("command の prefix, name, alias に空白は使えません")
	}
	if _, err := c.Dialog.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// OwnerAndName は "owner/name" 形式のリポジトリを分解する
func (g GitHubConfig) OwnerAndName() (string, string, error) {
	owner, name, ok := strings.Cut(g.Repository, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("github.repository が無効です: %q (owner/name 形式)", g.Repository)
	}
	return owner, name, nil
}

// TimeoutDuration は待機の上限を返す。0は無制限
func (d DialogConfig) TimeoutDuration() (time.Duration, error) {
	if d.Timeout == "" || d.Timeout == "0" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return 0, fmt.Errorf("dialog.timeout が無効です: %w", err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("dialog.timeout に負の値は使えません")
	}
	return timeout, nil
}
