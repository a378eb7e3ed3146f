package domain

// Issue はトラッカー上のIssue
type Issue struct {
	Number  int
	Title   string
	HTMLURL string
}

// IssueRequest はIssue作成のリクエスト
type IssueRequest struct {
	Title  string
	Body   string
	Labels []string
}
