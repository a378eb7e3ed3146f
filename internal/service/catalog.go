package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
)

// LoadCatalog はトラッカーからラベルを一度だけ読み込み、カタログを構築する
func LoadCatalog(ctx context.Context, repo domain.LabelRepository, translator domain.EmojiTranslator, policy domain.MissingMarkerPolicy, logger *slog.Logger) (*domain.Catalog, error) {
	names, err := repo.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("ラベル取得エラー: %w", err)
	}

	catalog, err := domain.NewCatalog(names, translator, policy)
	if err != nil {
		return nil, fmt.Errorf("カタログ構築エラー: %w", err)
	}

	for _, s := range catalog.Skipped() {
		logger.Warn("ラベルを除外しました", "label", s.Name, "reason", s.Reason)
	}
	logger.Info("ラベルを読み込みました", "labels", catalog.Len(), "skipped", len(catalog.Skipped()))

	return catalog, nil
}
