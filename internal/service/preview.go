package service

import (
	"fmt"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
)

const (
	previewColor     = "#00FFFF"
	previewThumbnail = "https://github.githubassets.com/images/modules/logos_page/GitHub-Mark.png"
	previewFooter    = "This is a preview. Please confirm that all info is correct."
)

// BuildPreview はタイトル、本文、カタログのラベル一覧からプレビューを作る
func BuildPreview(title, body string, catalog *domain.Catalog) domain.OutgoingMessage {
	labels := catalog.Labels()
	lines := make([]string, 0, len(labels))
	for _, l := range labels {
		lines = append(lines, l.MenuLine())
	}

	return domain.OutgoingMessage{
		Text: fmt.Sprintf("Issue preview: %s", title),
		Card: &domain.PreviewCard{
			Title:        title,
			Description:  body,
			Color:        previewColor,
			Indicator:    fmt.Sprintf(":%s: confirm   :%s: cancel", domain.ConfirmEmoji, domain.CancelEmoji),
			LabelsHeader: "Labels",
			LabelLines:   lines,
			ThumbnailURL: previewThumbnail,
			Footer:       previewFooter,
		},
	}
}

// PreviewReactions はプレビューに付けるリアクションを順番に返す
// 確認、キャンセル、カタログ順のラベル
func PreviewReactions(catalog *domain.Catalog) []string {
	return append([]string{domain.ConfirmEmoji, domain.CancelEmoji}, catalog.PlatformEmojis()...)
}
