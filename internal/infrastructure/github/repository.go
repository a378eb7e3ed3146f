package github

import (
	"context"
	"fmt"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
	"github.com/google/go-github/v79/github"
)

const perPage = 100

// Repository はGitHub APIを使用してラベルとIssueを扱うリポジトリ
type Repository struct {
	client *github.Client
	owner  string
	name   string
}

// NewRepository は新しいRepositoryを作成する
func NewRepository(client *github.Client, owner, name string) *Repository {
	return &Repository{
		client: client,
		owner:  owner,
		name:   name,
	}
}

// ListLabels はリポジトリのすべてのラベル名を取得する
func (r *Repository) ListLabels(ctx context.Context) ([]string, error) {
	opts := &github.ListOptions{PerPage: perPage}
	var names []string

	for {
		labels, resp, err := r.client.Issues.ListLabels(ctx, r.owner, r.name, opts)
		if err != nil {
			return nil, fmt.Errorf("ラベル一覧取得エラー: %w", err)
		}

		for _, label := range labels {
			names = append(names, label.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return names, nil
}

// CreateIssue はIssueを作成する
func (r *Repository) CreateIssue(ctx context.Context, req domain.IssueRequest) (*domain.Issue, error) {
	labels := req.Labels
	if labels == nil {
		labels = []string{}
	}

	issue, _, err := r.client.Issues.Create(ctx, r.owner, r.name, &github.IssueRequest{
		Title:  github.Ptr(req.Title),
		Body:   github.Ptr(req.Body),
		Labels: &labels,
	})
	if err != nil {
		return nil, fmt.Errorf("Issue作成エラー: %w", err)
	}

	return convertToDomainIssue(issue), nil
}

// LatestOpenIssue は最も新しく作成されたオープンなIssueを取得する
// プルリクエストは対象外
func (r *Repository) LatestOpenIssue(ctx context.Context) (*domain.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 10},
	}

	for {
		issues, resp, err := r.client.Issues.ListByRepo(ctx, r.owner, r.name, opts)
		if err != nil {
			return nil, fmt.Errorf("Issue一覧取得エラー: %w", err)
		}

		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			return convertToDomainIssue(issue), nil
		}

		if resp.NextPage == 0 {
			return nil, domain.ErrNoOpenIssue
		}
		opts.ListOptions.Page = resp.NextPage
	}
}

func convertToDomainIssue(issue *github.Issue) *domain.Issue {
	return &domain.Issue{
		Number:  issue.GetNumber(),
		Title:   issue.GetTitle(),
		HTMLURL: issue.GetHTMLURL(),
	}
}
