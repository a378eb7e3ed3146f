package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
)

// mockTranslator は固定の対応表を使うEmojiTranslatorのモック実装
type mockTranslator map[string]string

func (m mockTranslator) ToPlatform(token string) (string, bool) {
	name, ok := m[token]
	return name, ok
}

var testTranslator = mockTranslator{
	"🐛": "bug",
	"📚": "books",
}

// mockLabelRepository はLabelRepositoryのモック実装
type mockLabelRepository struct {
	names []string
	err   error
	calls int
}

func (m *mockLabelRepository) ListLabels(ctx context.Context) ([]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.names, nil
}

// mockIssueRepository はIssueRepositoryのモック実装
// 作成されたIssueに連番を振り、最新のものをLatestOpenIssueで返す
type mockIssueRepository struct {
	mu          sync.Mutex
	created     []domain.IssueRequest
	next        int
	createErr   error
	afterCreate func()
}

func (m *mockIssueRepository) CreateIssue(ctx context.Context, req domain.IssueRequest) (*domain.Issue, error) {
	m.mu.Lock()
	if m.createErr != nil {
		m.mu.Unlock()
		return nil, m.createErr
	}
	m.next++
	m.created = append(m.created, req)
	issue := &domain.Issue{Number: m.next, Title: req.Title}
	hook := m.afterCreate
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return issue, nil
}

func (m *mockIssueRepository) LatestOpenIssue(ctx context.Context) (*domain.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next == 0 {
		return nil, domain.ErrNoOpenIssue
	}
	return &domain.Issue{Number: m.next, Title: m.created[len(m.created)-1].Title}, nil
}

// mockMessageRepository はMessageRepositoryのモック実装
type mockMessageRepository struct {
	mu        sync.Mutex
	posts     []domain.OutgoingMessage
	deleted   []domain.MessageRef
	reactions []string
	snapshot  []domain.Reaction
	findErr   error
	seq       int
	// onReaction はAddReactionのたびに呼ばれる
	onReaction func(name string)
}

func (m *mockMessageRepository) Post(ctx context.Context, channelID string, msg domain.OutgoingMessage) (domain.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.posts = append(m.posts, msg)
	return domain.MessageRef{ChannelID: channelID, Timestamp: fmt.Sprintf("200.%06d", m.seq)}, nil
}

func (m *mockMessageRepository) Delete(ctx context.Context, ref domain.MessageRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, ref)
	return nil
}

func (m *mockMessageRepository) AddReaction(ctx context.Context, ref domain.MessageRef, name string) error {
	m.mu.Lock()
	m.reactions = append(m.reactions, name)
	hook := m.onReaction
	m.mu.Unlock()

	if hook != nil {
		hook(name)
	}
	return nil
}

func (m *mockMessageRepository) FindReactions(ctx context.Context, ref domain.MessageRef) ([]domain.Reaction, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.snapshot, nil
}

func (m *mockMessageRepository) postedTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	texts := make([]string, 0, len(m.posts))
	for _, p := range m.posts {
		texts = append(texts, p.Text)
	}
	return texts
}

// mockUserRepository はUserRepositoryのモック実装
type mockUserRepository struct {
	users map[string]*domain.User
}

func (m *mockUserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	if user, ok := m.users[userID]; ok {
		return user, nil
	}
	return nil, errors.New("user_not_found")
}

// scriptedEvents は用意したイベントを順に照合するEventSourceのモック実装
// 一致するものがなければctxが終わるまで待つ
type scriptedEvents struct {
	messages  []*domain.Message
	reactions []*domain.ReactionEvent
}

func (s *scriptedEvents) NextMessage(ctx context.Context, match func(*domain.Message) bool) (*domain.Message, error) {
	for i, m := range s.messages {
		if match(m) {
			s.messages = s.messages[i+1:]
			return m, nil
		}
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *scriptedEvents) ExpectReaction(match func(*domain.ReactionEvent) bool) domain.ReactionWaiter {
	return &scriptedReactionWaiter{events: s, match: match}
}

type scriptedReactionWaiter struct {
	events *scriptedEvents
	match  func(*domain.ReactionEvent) bool
}

func (w *scriptedReactionWaiter) Wait(ctx context.Context) (*domain.ReactionEvent, error) {
	for i, ev := range w.events.reactions {
		if w.match(ev) {
			w.events.reactions = w.events.reactions[i+1:]
			return ev, nil
		}
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (w *scriptedReactionWaiter) Stop() {}
