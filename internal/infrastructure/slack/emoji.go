package slack

import (
	"strings"

	"github.com/kyokomi/emoji/v2"
)

const variationSelector = "\ufe0f"

// EmojiTranslator はGitHubの絵文字表記をSlackのリアクション名に変換する
// ":bug:" の形式と "🐛" のようなUnicode表記の両方を扱う
type EmojiTranslator struct {
	codes map[string]string   // ":bug:" → "🐛"
	names map[string][]string // "🎉" → [":tada:", ":party_popper:"] 先頭がSlackの名前
}

// NewEmojiTranslator は新しいEmojiTranslatorを作成する
func NewEmojiTranslator() *EmojiTranslator {
	return &EmojiTranslator{
		codes: emoji.CodeMap(),
		names: emoji.RevCodeMap(),
	}
}

// ToPlatform は絵文字トークンをSlackのリアクション名に変換する
func (t *EmojiTranslator) ToPlatform(token string) (string, bool) {
	if isShortcode(token) {
		if _, ok := t.codes[token]; !ok {
			return "", false
		}
		return strings.Trim(token, ":"), true
	}

	for _, glyph := range []string{token, strings.TrimSuffix(token, variationSelector), token + variationSelector} {
		if aliases := t.names[glyph]; len(aliases) > 0 {
			return strings.Trim(aliases[0], ":"), true
		}
	}
	return "", false
}

func isShortcode(token string) bool {
	return len(token) > 2 && strings.HasPrefix(token, ":") && strings.HasSuffix(token, ":")
}
