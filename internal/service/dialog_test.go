package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
	"github.com/StephanAkkerman/Issue-Bot/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	commandMsg = &domain.Message{ID: "100.000001", Text: "!issue Crash on load", UserID: "U1", ChannelID: "C1"}
	bodyMsg    = &domain.Message{ID: "100.000002", Text: "It crashes every time.", UserID: "U1", ChannelID: "C1"}
	// プレビューはモックで2番目に投稿されるメッセージ
	previewRef = domain.MessageRef{ChannelID: "C1", Timestamp: "200.000002"}
	ackRef     = domain.MessageRef{ChannelID: "C1", Timestamp: "200.000001"}
)

type dialogFixture struct {
	dialog   *IssueDialog
	messages *mockMessageRepository
	issues   *mockIssueRepository
	events   *scriptedEvents
}

func newDialogFixture(t *testing.T, timeout time.Duration) *dialogFixture {
	t.Helper()

	catalog, err := domain.NewCatalog([]string{"bug 🐛", "docs 📚"}, testTranslator, domain.MissingMarkerFail)
	require.NoError(t, err)

	f := &dialogFixture{
		messages: &mockMessageRepository{},
		issues:   &mockIssueRepository{next: 41},
		events:   &scriptedEvents{},
	}
	f.dialog = NewIssueDialog(DialogOptions{
		Messages: f.messages,
		Users:    &mockUserRepository{users: map[string]*domain.User{"U1": {ID: "U1", Name: "alice"}}},
		Events:   f.events,
		Catalog:  catalog,
		Issues:   NewIssueClient(f.issues, "owner/repo"),
		Usage:    "!issue <title>",
		Timeout:  timeout,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

func TestIssueDialog_Confirm(t *testing.T) {
	f := newDialogFixture(t, 0)
	f.events.messages = []*domain.Message{
		{ID: "100.000009", Text: "別の人の発言", UserID: "U2", ChannelID: "C1"},
		{ID: "100.000010", Text: "別チャンネル", UserID: "U1", ChannelID: "C9"},
		bodyMsg,
	}
	f.events.reactions = []*domain.ReactionEvent{
		{UserID: "U1", Reaction: "bug", Item: previewRef},
		{UserID: "U2", Reaction: domain.ConfirmEmoji, Item: previewRef},
		{UserID: "U1", Reaction: domain.ConfirmEmoji, Item: domain.MessageRef{ChannelID: "C1", Timestamp: "999.000000"}},
		{UserID: "U1", Reaction: domain.ConfirmEmoji, Item: previewRef},
	}
	f.messages.snapshot = []domain.Reaction{
		{Name: domain.ConfirmEmoji, Count: 2},
		{Name: domain.CancelEmoji, Count: 1},
		{Name: "bug", Count: 2},
		{Name: "books", Count: 1},
	}

	session, err := f.dialog.Run(context.Background(), domain.Invocation{
		Message: commandMsg,
		Args:    []string{"Crash", "on", "load"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StateCompleted, session.State)
	assert.Equal(t, "alice", session.Requester)
	assert.Equal(t, []string{"bug 🐛"}, session.SelectedLabels)

	require.Len(t, f.issues.created, 1)
	assert.Equal(t, domain.IssueRequest{
		Title:  "Crash on load",
		Body:   "It crashes every time.\nRequested by alice",
		Labels: []string{"bug 🐛"},
	}, f.issues.created[0])

	assert.Equal(t, []string{domain.ConfirmEmoji, domain.CancelEmoji, "bug", "books"}, f.messages.reactions)
	assert.Equal(t, []domain.MessageRef{commandMsg.Ref(), ackRef, bodyMsg.Ref(), previewRef}, f.messages.deleted)

	texts := f.messages.postedTexts()
	require.Len(t, texts, 3)
	assert.Equal(t, "Creating issue with title *Crash on load*. What should the description be?", texts[0])
	assert.Equal(t, "Issue successfully created!\nhttps://github.com/owner/repo/issues/42", texts[2])

	card := f.messages.posts[1].Card
	require.NotNil(t, card)
	assert.Equal(t, "Crash on load", card.Title)
	assert.Equal(t, "It crashes every time.", card.Description)
	assert.Equal(t, []string{":bug: bug", ":books: docs"}, card.LabelLines)
}

func TestIssueDialog_Cancel(t *testing.T) {
	f := newDialogFixture(t, 0)
	f.events.messages = []*domain.Message{bodyMsg}
	f.events.reactions = []*domain.ReactionEvent{
		{UserID: "U1", Reaction: domain.CancelEmoji, Item: previewRef},
	}
	// カタログにない絵文字があってもキャンセル時はラベルを解決しない
	f.messages.snapshot = []domain.Reaction{
		{Name: domain.ConfirmEmoji, Count: 1},
		{Name: domain.CancelEmoji, Count: 2},
		{Name: "smile", Count: 3},
	}

	session, err := f.dialog.Run(context.Background(), domain.Invocation{
		Message: commandMsg,
		Args:    []string{"Crash", "on", "load"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StateCancelled, session.State)
	assert.Nil(t, session.SelectedLabels)
	assert.Empty(t, f.issues.created)
	assert.Len(t, f.messages.deleted, 4)

	texts := f.messages.postedTexts()
	assert.Equal(t, "Make a new issue using `!issue <title>` and follow the instructions.", texts[len(texts)-1])
}

// hubReactions はリアクションだけHubから受け取るEventSource
type hubReactions struct {
	*scriptedEvents
	hub *event.Hub
}

func (h hubReactions) ExpectReaction(match func(*domain.ReactionEvent) bool) domain.ReactionWaiter {
	return h.hub.ExpectReaction(match)
}

func TestIssueDialog_DecisionDuringReactionSetup(t *testing.T) {
	f := newDialogFixture(t, time.Second)
	f.events.messages = []*domain.Message{bodyMsg}
	hub := event.NewHub()
	f.dialog.events = hubReactions{scriptedEvents: f.events, hub: hub}
	f.messages.snapshot = []domain.Reaction{{Name: domain.ConfirmEmoji, Count: 2}}

	// 最初のリアクションを付けた直後、残りを付け終わる前に確認が押される
	f.messages.onReaction = func(name string) {
		if name == domain.ConfirmEmoji {
			hub.PublishReaction(&domain.ReactionEvent{UserID: "U1", Reaction: domain.ConfirmEmoji, Item: previewRef})
		}
	}

	session, err := f.dialog.Run(context.Background(), domain.Invocation{
		Message: commandMsg,
		Args:    []string{"Crash", "on", "load"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, session.State)
	assert.Len(t, f.messages.reactions, 4)
	require.Len(t, f.issues.created, 1)

	_, r := hub.Pending()
	assert.Zero(t, r)
}

func TestIssueDialog_NoArguments(t *testing.T) {
	f := newDialogFixture(t, 0)

	_, err := f.dialog.Run(context.Background(), domain.Invocation{Message: commandMsg})
	require.ErrorIs(t, err, domain.ErrUsage)

	assert.Empty(t, f.messages.posts)
	assert.Empty(t, f.messages.reactions)
	assert.Empty(t, f.issues.created)
}

func TestIssueDialog_UnknownReactionIsFatal(t *testing.T) {
	f := newDialogFixture(t, 0)
	f.events.messages = []*domain.Message{bodyMsg}
	f.events.reactions = []*domain.ReactionEvent{
		{UserID: "U1", Reaction: domain.ConfirmEmoji, Item: previewRef},
	}
	f.messages.snapshot = []domain.Reaction{
		{Name: domain.ConfirmEmoji, Count: 2},
		{Name: "smile", Count: 2},
	}

	_, err := f.dialog.Run(context.Background(), domain.Invocation{Message: commandMsg, Args: []string{"title"}})
	require.ErrorIs(t, err, domain.ErrUnknownEmoji)
	assert.Empty(t, f.issues.created)
}

func TestIssueDialog_UpstreamErrorAborts(t *testing.T) {
	f := newDialogFixture(t, 0)
	f.events.messages = []*domain.Message{bodyMsg}
	f.events.reactions = []*domain.ReactionEvent{
		{UserID: "U1", Reaction: domain.ConfirmEmoji, Item: previewRef},
	}
	f.messages.findErr = errors.New("ratelimited")

	session, err := f.dialog.Run(context.Background(), domain.Invocation{Message: commandMsg, Args: []string{"title"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ratelimited")
	assert.Equal(t, domain.StateAwaitingDecision, session.State)

	// 片付けは行わない
	assert.Empty(t, f.messages.deleted)
	assert.Empty(t, f.issues.created)
}

func TestIssueDialog_Timeout(t *testing.T) {
	f := newDialogFixture(t, 20*time.Millisecond)

	session, err := f.dialog.Run(context.Background(), domain.Invocation{Message: commandMsg, Args: []string{"title"}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, domain.StateAwaitingBody, session.State)
}

func TestIssueClient_LatestIssueURLRace(t *testing.T) {
	repo := &mockIssueRepository{next: 7}
	client := NewIssueClient(repo, "owner/repo")

	// 作成直後に別の誰かがIssueを作成する
	repo.afterCreate = func() {
		repo.afterCreate = nil
		_, _ = repo.CreateIssue(context.Background(), domain.IssueRequest{Title: "someone else"})
	}

	require.NoError(t, client.Create(context.Background(), "mine", "body", nil, "alice"))
	url, err := client.LatestIssueURL(context.Background())
	require.NoError(t, err)

	// 自分のIssueは#8だが、最新のオープンIssueとして#9のURLが返る
	assert.Equal(t, "https://github.com/owner/repo/issues/9", url)
	assert.Equal(t, "mine", repo.created[0].Title)
}

func TestIssueClient_Create(t *testing.T) {
	repo := &mockIssueRepository{}
	client := NewIssueClient(repo, "owner/repo")

	require.NoError(t, client.Create(context.Background(), "t", "b", []string{"bug 🐛"}, "bob"))
	require.Len(t, repo.created, 1)
	assert.Equal(t, "b\nRequested by bob", repo.created[0].Body)

	repo.createErr = errors.New("forbidden")
	err := client.Create(context.Background(), "t", "b", nil, "bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
}

func TestIssueClient_LatestIssueURLNoIssue(t *testing.T) {
	client := NewIssueClient(&mockIssueRepository{}, "owner/repo")
	_, err := client.LatestIssueURL(context.Background())
	require.ErrorIs(t, err, domain.ErrNoOpenIssue)
}
