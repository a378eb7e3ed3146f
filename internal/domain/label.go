package domain

import (
	"fmt"
	"strings"
)

// Label はトラッカー側のラベルを表すドメインモデル
// 名前は「説明テキスト + 末尾の絵文字トークン」で構成される（例: "bug 🐛", "docs :books:"）
type Label struct {
	FullName      string // 元のラベル名（Issue作成時に使う）
	Text          string // 説明テキスト
	EmojiToken    string // トラッカー側の絵文字表記
	PlatformEmoji string // チャット側のリアクション名（カタログ構築時に設定）
}

// ParseLabel はラベル名を説明テキストと絵文字トークンに分解する
func ParseLabel(name string) (Label, error) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return Label{}, fmt.Errorf("%w: %q", ErrMissingEmojiMarker, name)
	}

	return Label{
		FullName:   name,
		Text:       strings.Join(fields[:len(fields)-1], " "),
		EmojiToken: fields[len(fields)-1],
	}, nil
}

// MenuLine はプレビューに表示する1行（"絵文字 + テキスト"）を返す
func (l Label) MenuLine() string {
	return ":" + l.PlatformEmoji + ": " + l.Text
}
