package domain

// DialogState はIssue作成ダイアログの状態
type DialogState int

const (
	StateAwaitingTitle DialogState = iota
	StateAwaitingBody
	StatePreviewPosted
	StateAwaitingDecision
	StateCompleted
	StateCancelled
)

func (s DialogState) String() string {
	switch s {
	case StateAwaitingTitle:
		return "awaiting_title"
	case StateAwaitingBody:
		return "awaiting_body"
	case StatePreviewPosted:
		return "preview_posted"
	case StateAwaitingDecision:
		return "awaiting_decision"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// DraftSession は1回のコマンド実行の間だけ存在する下書き
// 永続化はしない
type DraftSession struct {
	ID             string
	Title          string
	Body           string
	Requester      string
	SelectedLabels []string
	State          DialogState
}

// Invocation はコマンドの呼び出しを表す
type Invocation struct {
	Message *Message // コマンドを含む元のメッセージ
	Args    []string
}
