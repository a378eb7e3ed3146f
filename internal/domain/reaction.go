package domain

const (
	// ConfirmEmoji は確認用のリアクション名（✅）
	ConfirmEmoji = "white_check_mark"
	// CancelEmoji はキャンセル用のリアクション名（❌）
	CancelEmoji = "x"
)

// Reaction はSlackのリアクション（絵文字）を表すドメインモデル
type Reaction struct {
	Name  string // 絵文字名（例: "thumbsup", "smile"）
	Count int    // リアクション数
}

// IsDecision は確認またはキャンセルのリアクションかどうかを返す
func (r Reaction) IsDecision() bool {
	return IsDecisionEmoji(r.Name)
}

// IsDecisionEmoji は絵文字名が確認またはキャンセルかどうかを返す
func IsDecisionEmoji(name string) bool {
	return name == ConfirmEmoji || name == CancelEmoji
}

// ReactionEvent はリアクションが追加されたことを表すイベント
type ReactionEvent struct {
	UserID   string
	Reaction string
	Item     MessageRef
}
