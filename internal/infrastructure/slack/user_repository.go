package slack

import (
	"context"
	"fmt"
	"sync"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
	"github.com/slack-go/slack"
)

// UserRepository はSlack APIを使用してユーザー情報を取得するリポジトリ
type UserRepository struct {
	client *slack.Client

	mu    sync.Mutex
	cache map[string]*domain.User
}

// NewUserRepository は新しいUserRepositoryを作成する
func NewUserRepository(client *slack.Client) *UserRepository {
	return &UserRepository{
		client: client,
		cache:  make(map[string]*domain.User),
	}
}

// FindByID は指定されたIDのユーザーを取得する
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	user, ok := r.cache[userID]
	r.mu.Unlock()
	if ok {
		return user, nil
	}

	userInfo, err := r.client.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザー '%s' の取得エラー: %w", userID, err)
	}

	user = &domain.User{
		ID:          userInfo.ID,
		Name:        userInfo.Name,
		DisplayName: userInfo.Profile.DisplayName,
		RealName:    userInfo.RealName,
	}

	r.mu.Lock()
	r.cache[userID] = user
	r.mu.Unlock()

	return user, nil
}
