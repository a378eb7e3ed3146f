package domain

// Message はSlackメッセージを表すドメインモデル
type Message struct {
	ID        string // メッセージのタイムスタンプ
	Text      string
	UserID    string
	ChannelID string
	Reactions []Reaction
	IsBot     bool
}

// Ref はメッセージへの参照を返す
func (m *Message) Ref() MessageRef {
	return MessageRef{ChannelID: m.ChannelID, Timestamp: m.ID}
}

// IsFrom は指定ユーザーが指定チャンネルに投稿したメッセージかどうかを返す
func (m *Message) IsFrom(userID, channelID string) bool {
	return m.UserID == userID && m.ChannelID == channelID
}

// OutgoingMessage はボットが投稿するメッセージ
type OutgoingMessage struct {
	Text string
	Card *PreviewCard
}

// PreviewCard はIssueのプレビューカード
type PreviewCard struct {
	Title        string
	Description  string
	Color        string
	Indicator    string
	LabelsHeader string
	LabelLines   []string
	ThumbnailURL string
	Footer       string
}
