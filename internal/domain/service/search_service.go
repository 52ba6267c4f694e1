package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/paulmach/orb"

	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/domain/repository"
)

// SearchService 商品検索（全件表示・検索・AIによるクエリ修正フォールバック）
type SearchService interface {
	// Search は検索文字列で商品を探し、入れ子構造にまとめて返す
	// 結果が空でもエラーではない
	Search(ctx context.Context, searchText string, origin *orb.Point) ([]model.ProductGroup, error)
}

type searchServiceImpl struct {
	catalogRepo repository.CatalogRepository
	normalizer  repository.QueryNormalizationRepository
}

// NewSearchService は新しいSearchServiceインスタンスを作成
func NewSearchService(catalogRepo repository.CatalogRepository, normalizer repository.QueryNormalizationRepository) SearchService {
	return &searchServiceImpl{
		catalogRepo: catalogRepo,
		normalizer:  normalizer,
	}
}

// searchStage は検索パイプラインの1段分。次に検索するクエリを返す
type searchStage func(ctx context.Context, query string) string

func (s *searchServiceImpl) Search(ctx context.Context, searchText string, origin *orb.Point) ([]model.ProductGroup, error) {
	searchText = strings.TrimSpace(searchText)

	if searchText == "" {
		rows, err := s.catalogRepo.FetchAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("全商品データの取得失敗: %w", err)
		}
		return GroupProducts(rows, origin), nil
	}

	// Stage 1: 元のクエリのまま / Stage 2: AIで修正したクエリ
	stages := []searchStage{
		func(_ context.Context, q string) string { return q },
		s.fixQuery,
	}

	var results []model.ProductGroup
	for i, stage := range stages {
		query := stage(ctx, searchText)

		rows, err := s.catalogRepo.FetchBySearch(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("商品検索失敗 (stage %d): %w", i+1, err)
		}

		results = GroupProducts(rows, origin)
		if len(results) > 0 {
			return results, nil
		}
		log.Printf("⚠️ '%s' の検索結果が0件 (stage %d)", query, i+1)
	}

	return results, nil
}

func (s *searchServiceImpl) fixQuery(ctx context.Context, query string) string {
	fixed := s.normalizer.FixQuery(ctx, query)
	log.Printf("📝 クエリ修正: '%s' → '%s'", query, fixed)
	return fixed
}
