package domain

import "context"

// LabelRepository はトラッカーからラベルを取得するリポジトリインターフェース
type LabelRepository interface {
	ListLabels(ctx context.Context) ([]string, error)
}

// IssueRepository はトラッカーのIssueを扱うリポジトリインターフェース
type IssueRepository interface {
	CreateIssue(ctx context.Context, req IssueRequest) (*Issue, error)
	LatestOpenIssue(ctx context.Context) (*Issue, error)
}

// MessageRepository はチャットのメッセージを操作するリポジトリインターフェース
type MessageRepository interface {
	Post(ctx context.Context, channelID string, msg OutgoingMessage) (MessageRef, error)
	Delete(ctx context.Context, ref MessageRef) error
	AddReaction(ctx context.Context, ref MessageRef, name string) error
	FindReactions(ctx context.Context, ref MessageRef) ([]Reaction, error)
}

// UserRepository はユーザー情報を取得するリポジトリインターフェース
type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*User, error)
}

// EventSource は条件に一致する次のイベントを待つ
// ctxが終了するまで待ち続ける
type EventSource interface {
	NextMessage(ctx context.Context, match func(*Message) bool) (*Message, error)
	// ExpectReaction は呼び出した時点から一致するリアクションを受け付ける
	ExpectReaction(match func(*ReactionEvent) bool) ReactionWaiter
}

// ReactionWaiter は登録済みのリアクション待ち
// 使い終わったらStopで登録を外す
type ReactionWaiter interface {
	Wait(ctx context.Context) (*ReactionEvent, error)
	Stop()
}
