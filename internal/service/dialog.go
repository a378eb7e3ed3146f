package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
	"github.com/google/uuid"
)

// DialogOptions はIssueDialogの依存関係と設定
type DialogOptions struct {
	Messages domain.MessageRepository
	Users    domain.UserRepository
	Events   domain.EventSource
	Catalog  *domain.Catalog
	Issues   *IssueClient

	// Usage はキャンセル時の案内に使うコマンドの書式（例: "!issue <title>"）
	Usage string
	// Timeout は各待機の上限。0の場合は無制限に待つ
	Timeout time.Duration
	Logger  *slog.Logger
}

// IssueDialog はコマンド呼び出しからIssue作成までの対話を進めるサービス
type IssueDialog struct {
	messages domain.MessageRepository
	users    domain.UserRepository
	events   domain.EventSource
	catalog  *domain.Catalog
	issues   *IssueClient
	usage    string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewIssueDialog は新しいIssueDialogを作成する
func NewIssueDialog(opts DialogOptions) *IssueDialog {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &IssueDialog{
		messages: opts.Messages,
		users:    opts.Users,
		events:   opts.Events,
		catalog:  opts.Catalog,
		issues:   opts.Issues,
		usage:    opts.Usage,
		timeout:  opts.Timeout,
		logger:   logger,
	}
}

// Run はダイアログを最後まで進める
// 途中のエラーはそのまま返し、投稿済みのメッセージは片付けない
func (d *IssueDialog) Run(ctx context.Context, inv domain.Invocation) (*domain.DraftSession, error) {
	session := &domain.DraftSession{
		ID:    uuid.NewString(),
		State: domain.StateAwaitingTitle,
	}
	logger := d.logger.With("session", session.ID, "user", inv.Message.UserID, "channel", inv.Message.ChannelID)

	if len(inv.Args) == 0 {
		return session, domain.ErrUsage
	}
	session.Title = strings.Join(inv.Args, " ")
	channelID := inv.Message.ChannelID
	requesterID := inv.Message.UserID

	ack, err := d.messages.Post(ctx, channelID, domain.OutgoingMessage{
		Text: fmt.Sprintf("Creating issue with title *%s*. What should the description be?", session.Title),
	})
	if err != nil {
		return session, fmt.Errorf("確認メッセージ投稿エラー: %w", err)
	}
	d.transition(logger, session, domain.StateAwaitingBody)

	body, err := d.nextMessage(ctx, func(m *domain.Message) bool {
		return !m.IsBot && m.IsFrom(requesterID, channelID)
	})
	if err != nil {
		return session, fmt.Errorf("本文待機エラー: %w", err)
	}
	session.Body = body.Text

	preview, err := d.messages.Post(ctx, channelID, BuildPreview(session.Title, session.Body, d.catalog))
	if err != nil {
		return session, fmt.Errorf("プレビュー投稿エラー: %w", err)
	}
	// リアクションを付け終わる前に押された確認/キャンセルも受け付ける
	decisionWait := d.events.ExpectReaction(func(ev *domain.ReactionEvent) bool {
		return ev.UserID == requesterID && ev.Item == preview && domain.IsDecisionEmoji(ev.Reaction)
	})
	defer decisionWait.Stop()

	for _, name := range PreviewReactions(d.catalog) {
		if err := d.messages.AddReaction(ctx, preview, name); err != nil {
			return session, fmt.Errorf("リアクション追加エラー (%s): %w", name, err)
		}
	}
	d.transition(logger, session, domain.StatePreviewPosted)

	d.transition(logger, session, domain.StateAwaitingDecision)
	decision, err := d.waitReaction(ctx, decisionWait)
	if err != nil {
		return session, fmt.Errorf("確認待機エラー: %w", err)
	}

	// プレビューは削除するので、その前にリアクションの状態を読んでおく
	snapshot, err := d.messages.FindReactions(ctx, preview)
	if err != nil {
		return session, fmt.Errorf("リアクション取得エラー: %w", err)
	}

	for _, ref := range []domain.MessageRef{inv.Message.Ref(), ack, body.Ref(), preview} {
		if err := d.messages.Delete(ctx, ref); err != nil {
			return session, fmt.Errorf("メッセージ削除エラー: %w", err)
		}
	}

	if decision.Reaction == domain.CancelEmoji {
		if _, err := d.messages.Post(ctx, channelID, domain.OutgoingMessage{
			Text: fmt.Sprintf("Make a new issue using `%s` and follow the instructions.", d.usage),
		}); err != nil {
			return session, fmt.Errorf("キャンセルメッセージ投稿エラー: %w", err)
		}
		d.transition(logger, session, domain.StateCancelled)
		return session, nil
	}

	session.SelectedLabels, err = d.catalog.ResolveSelection(snapshot)
	if err != nil {
		return session, fmt.Errorf("ラベル解決エラー: %w", err)
	}

	requester, err := d.users.FindByID(ctx, requesterID)
	if err != nil {
		return session, fmt.Errorf("ユーザー取得エラー: %w", err)
	}
	session.Requester = requester.GetDisplayName()

	if err := d.issues.Create(ctx, session.Title, session.Body, session.SelectedLabels, session.Requester); err != nil {
		return session, err
	}
	url, err := d.issues.LatestIssueURL(ctx)
	if err != nil {
		return session, err
	}

	if _, err := d.messages.Post(ctx, channelID, domain.OutgoingMessage{
		Text: fmt.Sprintf("Issue successfully created!\n%s", url),
	}); err != nil {
		return session, fmt.Errorf("完了メッセージ投稿エラー: %w", err)
	}
	d.transition(logger, session, domain.StateCompleted)
	logger.Info("Issueを作成しました", "title", session.Title, "labels", session.SelectedLabels, "url", url)

	return session, nil
}

func (d *IssueDialog) transition(logger *slog.Logger, session *domain.DraftSession, next domain.DialogState) {
	logger.Debug("状態遷移", "from", session.State.String(), "to", next.String())
	session.State = next
}

func (d *IssueDialog) waitContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout > 0 {
		return context.WithTimeout(ctx, d.timeout)
	}
	return context.WithCancel(ctx)
}

func (d *IssueDialog) nextMessage(ctx context.Context, match func(*domain.Message) bool) (*domain.Message, error) {
	waitCtx, cancel := d.waitContext(ctx)
	defer cancel()
	return d.events.NextMessage(waitCtx, match)
}

func (d *IssueDialog) waitReaction(ctx context.Context, w domain.ReactionWaiter) (*domain.ReactionEvent, error) {
	waitCtx, cancel := d.waitContext(ctx)
	defer cancel()
	return w.Wait(waitCtx)
}
