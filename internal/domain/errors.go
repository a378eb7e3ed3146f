package domain

import "errors"

var (
	// ErrUsage はコマンドの引数が不足している場合のエラー
	ErrUsage = errors.New("タイトルが指定されていません")

	// ErrMissingEmojiMarker はラベル名に絵文字マーカーが含まれない場合のエラー
	ErrMissingEmojiMarker = errors.New("ラベルに絵文字マーカーがありません")

	// ErrDuplicateEmoji は複数のラベルが同じ絵文字に対応する場合のエラー
	ErrDuplicateEmoji = errors.New("絵文字が複数のラベルに割り当てられています")

	// ErrUnknownEmoji はリアクションの絵文字がカタログに存在しない場合のエラー
	ErrUnknownEmoji = errors.New("カタログに存在しない絵文字です")

	// ErrNoOpenIssue はオープンなIssueが1件もない場合のエラー
	ErrNoOpenIssue = errors.New("オープンなIssueがありません")
)
