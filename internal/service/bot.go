package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
)

// Publisher は受信したイベントを待機中のダイアログへ渡す
type Publisher interface {
	PublishMessage(msg *domain.Message) int
	PublishReaction(ev *domain.ReactionEvent) int
}

// DialogRunner は1回のコマンド呼び出しを処理する
type DialogRunner interface {
	Run(ctx context.Context, inv domain.Invocation) (*domain.DraftSession, error)
}

// Command はコマンドの呼び出し方
type Command struct {
	Prefix string // 例: "!"
	Name   string // 例: "issue"
	Alias  string // 空の場合は別名なし
}

// Usage はコマンドの書式を返す
func (c Command) Usage() string {
	return c.Prefix + c.Name + " <title>"
}

// Parse はメッセージ本文がコマンドであれば引数を返す
func (c Command) Parse(text string) ([]string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], c.Prefix) {
		return nil, false
	}

	trigger := strings.TrimPrefix(fields[0], c.Prefix)
	if trigger == "" || (trigger != c.Name && trigger != c.Alias) {
		return nil, false
	}
	return fields[1:], true
}

// Bot はチャットのイベントを受け取り、コマンドごとにダイアログを起動する
type Bot struct {
	publisher Publisher
	dialog    DialogRunner
	messages  domain.MessageRepository
	command   Command
	logger    *slog.Logger

	wg sync.WaitGroup
}

// NewBot は新しいBotを作成する
func NewBot(publisher Publisher, dialog DialogRunner, messages domain.MessageRepository, command Command, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		publisher: publisher,
		dialog:    dialog,
		messages:  messages,
		command:   command,
		logger:    logger,
	}
}

// HandleMessage はメッセージを配信し、コマンドであればダイアログを開始する
func (b *Bot) HandleMessage(ctx context.Context, msg *domain.Message) {
	b.publisher.PublishMessage(msg)

	if msg.IsBot {
		return
	}
	args, ok := b.command.Parse(msg.Text)
	if !ok {
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.run(ctx, domain.Invocation{Message: msg, Args: args})
	}()
}

// HandleReaction はリアクションを待機中のダイアログへ配信する
func (b *Bot) HandleReaction(_ context.Context, ev *domain.ReactionEvent) {
	b.publisher.PublishReaction(ev)
}

// Wait は実行中のダイアログがすべて終わるまで待つ
func (b *Bot) Wait() {
	b.wg.Wait()
}

func (b *Bot) run(ctx context.Context, inv domain.Invocation) {
	session, err := b.dialog.Run(ctx, inv)
	switch {
	case err == nil:
		b.logger.Debug("ダイアログ終了", "session", session.ID, "state", session.State.String())
	case errors.Is(err, domain.ErrUsage):
		// 入力エラーは書式を案内するだけ
		if _, postErr := b.messages.Post(ctx, inv.Message.ChannelID, domain.OutgoingMessage{
			Text: fmt.Sprintf("Usage: `%s`", b.command.Usage()),
		}); postErr != nil {
			b.logger.Error("書式の案内に失敗しました", "error", postErr)
		}
	case ctx.Err() != nil:
		b.logger.Info("ダイアログを中断しました", "session", sessionID(session), "error", err)
	default:
		b.logger.Error("ダイアログが失敗しました", "session", sessionID(session), "state", sessionState(session), "error", err)
	}
}

func sessionID(s *domain.DraftSession) string {
	if s == nil {
		return ""
	}
	return s.ID
}

func sessionState(s *domain.DraftSession) string {
	if s == nil {
		return ""
	}
	return s.State.String()
}
