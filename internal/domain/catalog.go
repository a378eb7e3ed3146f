package domain

import (
	"fmt"
)

// EmojiTranslator はトラッカー側の絵文字トークンをチャット側のリアクション名に変換する
type EmojiTranslator interface {
	ToPlatform(token string) (string, bool)
}

// MissingMarkerPolicy は絵文字マーカーのないラベルの扱いを表す
type MissingMarkerPolicy string

const (
	// MissingMarkerFail はカタログの読み込みを中断する
	MissingMarkerFail MissingMarkerPolicy = "fail"
	// MissingMarkerSkip はラベルを除外して読み込みを続ける
	MissingMarkerSkip MissingMarkerPolicy = "skip"
)

// IsValid はポリシーが既知の値かどうかを返す
func (p MissingMarkerPolicy) IsValid() bool {
	return p == MissingMarkerFail || p == MissingMarkerSkip
}

// SkippedLabel はカタログから除外されたラベル
type SkippedLabel struct {
	Name   string
	Reason error
}

// Catalog はラベルと絵文字の対応表
// 構築後は読み取り専用なので、複数のダイアログから同時に参照してよい
type Catalog struct {
	labels                    []Label
	labelByEmojiToken         map[string]string
	emojiTokenByPlatformEmoji map[string]string
	skipped                   []SkippedLabel
}

// NewCatalog はラベル名の一覧からカタログを構築する
func NewCatalog(names []string, translator EmojiTranslator, policy MissingMarkerPolicy) (*Catalog, error) {
	if !policy.IsValid() {
		return nil, fmt.Errorf("不明なポリシー: %q", policy)
	}

	c := &Catalog{
		labels:                    make([]Label, 0, len(names)),
		labelByEmojiToken:         make(map[string]string, len(names)),
		emojiTokenByPlatformEmoji: make(map[string]string, len(names)),
	}

	for _, name := range names {
		label, err := parseCatalogLabel(name, translator)
		if err != nil {
			if policy == MissingMarkerSkip {
				c.skipped = append(c.skipped, SkippedLabel{Name: name, Reason: err})
				continue
			}
			return nil, err
		}

		if existing, ok := c.emojiTokenByPlatformEmoji[label.PlatformEmoji]; ok {
			return nil, fmt.Errorf("%w: :%s: (%s, %s)", ErrDuplicateEmoji, label.PlatformEmoji, c.labelByEmojiToken[existing], name)
		}

		c.labels = append(c.labels, label)
		c.labelByEmojiToken[label.EmojiToken] = label.FullName
		c.emojiTokenByPlatformEmoji[label.PlatformEmoji] = label.EmojiToken
	}

	return c, nil
}

func parseCatalogLabel(name string, translator EmojiTranslator) (Label, error) {
	label, err := ParseLabel(name)
	if err != nil {
		return Label{}, err
	}

	platform, ok := translator.ToPlatform(label.EmojiToken)
	if !ok {
		return Label{}, fmt.Errorf("%w: %q", ErrMissingEmojiMarker, name)
	}
	label.PlatformEmoji = platform

	return label, nil
}

// Labels はカタログ順のラベル一覧を返す
func (c *Catalog) Labels() []Label {
	labels := make([]Label, len(c.labels))
	copy(labels, c.labels)
	return labels
}

// Len はカタログに含まれるラベル数を返す
func (c *Catalog) Len() int {
	return len(c.labels)
}

// Skipped は除外されたラベルを返す
func (c *Catalog) Skipped() []SkippedLabel {
	return c.skipped
}

// PlatformEmojis はカタログ順のリアクション名を返す
func (c *Catalog) PlatformEmojis() []string {
	emojis := make([]string, 0, len(c.labels))
	for _, l := range c.labels {
		emojis = append(emojis, l.PlatformEmoji)
	}
	return emojis
}

// EmojiToken はリアクション名に対応するトラッカー側の絵文字トークンを返す
func (c *Catalog) EmojiToken(platformEmoji string) (string, bool) {
	token, ok := c.emojiTokenByPlatformEmoji[platformEmoji]
	return token, ok
}

// LabelName はリアクション名から元のラベル名を引く
func (c *Catalog) LabelName(platformEmoji string) (string, error) {
	token, ok := c.emojiTokenByPlatformEmoji[platformEmoji]
	if !ok {
		return "", fmt.Errorf("%w: :%s:", ErrUnknownEmoji, platformEmoji)
	}

	name, ok := c.labelByEmojiToken[token]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEmoji, token)
	}

	return name, nil
}

// ResolveSelection はプレビューのリアクションから選択されたラベル名を求める
// 確認/キャンセル以外で、ボット自身の1件を超えるリアクションが対象
func (c *Catalog) ResolveSelection(reactions []Reaction) ([]string, error) {
	selected := make([]string, 0, len(reactions))
	for _, r := range reactions {
		if r.IsDecision() || r.Count <= 1 {
			continue
		}

		name, err := c.LabelName(r.Name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, name)
	}

	return selected, nil
}
