package service

import (
	"context"
	"fmt"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
)

// IssueClient はトラッカーへのIssue作成を行う
type IssueClient struct {
	repo       domain.IssueRepository
	repository string // "owner/name"
}

// NewIssueClient は新しいIssueClientを作成する
func NewIssueClient(repo domain.IssueRepository, repository string) *IssueClient {
	return &IssueClient{
		repo:       repo,
		repository: repository,
	}
}

// Create は本文に依頼者を追記してIssueを作成する
func (c *IssueClient) Create(ctx context.Context, title, body string, labels []string, requester string) error {
	req := domain.IssueRequest{
		Title:  title,
		Body:   body + "\nRequested by " + requester,
		Labels: labels,
	}

	if _, err := c.repo.CreateIssue(ctx, req); err != nil {
		return fmt.Errorf("Issue作成エラー: %w", err)
	}
	return nil
}

// LatestIssueURL は最新のオープンなIssueのURLを返す
// Createの直後に他者がIssueを作成した場合は、そちらのURLを返してしまう
func (c *IssueClient) LatestIssueURL(ctx context.Context) (string, error) {
	issue, err := c.repo.LatestOpenIssue(ctx)
	if err != nil {
		return "", fmt.Errorf("最新Issue取得エラー: %w", err)
	}

	return fmt.Sprintf("https://github.com/%s/issues/%d", c.repository, issue.Number), nil
}
