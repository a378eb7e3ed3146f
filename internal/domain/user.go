package domain

// User はSlackユーザーを表すドメインモデル
type User struct {
	ID          string
	Name        string
	DisplayName string
	RealName    string
}

// GetDisplayName は表示名を優先順位に従って返す
// Issue本文の "Requested by" にもこの名前を使う
// 優先順位: DisplayName > RealName > Name > ID
func (u *User) GetDisplayName() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.RealName != "":
		return u.RealName
	case u.Name != "":
		return u.Name
	default:
		return u.ID
	}
}
