package domain

// MessageRef はチャンネル内の1件のメッセージを指す値オブジェクト
type MessageRef struct {
	ChannelID string
	Timestamp string
}
