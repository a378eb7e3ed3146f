package slack

import (
	"html"
	"regexp"
	"strings"
)

// <https://example.com|example.com> や <@U123> のようなSlackのマークアップ
var markupPattern = regexp.MustCompile(`<([^<>]+)>`)

// decodeText はSlackが送ってくるエンコード済みのテキストを入力されたままの文字列に戻す
func decodeText(text string) string {
	decoded := markupPattern.ReplaceAllStringFunc(text, func(m string) string {
		target, label, hasLabel := strings.Cut(m[1:len(m)-1], "|")
		switch {
		case strings.HasPrefix(target, "@"), strings.HasPrefix(target, "!"):
			if hasLabel {
				return "@" + strings.TrimPrefix(label, "@")
			}
			return "@" + strings.TrimPrefix(strings.TrimPrefix(target, "@"), "!")
		case strings.HasPrefix(target, "#"):
			if hasLabel {
				return "#" + label
			}
			return target
		case hasLabel:
			return label
		default:
			return target
		}
	})
	return html.UnescapeString(decoded)
}
