package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/domain/repository"
	"Shoppy-App/internal/domain/service"
)

// SearchQuery 商品検索の条件。未指定のフィルタは nil
type SearchQuery struct {
	Text          string
	MaxDistanceKm *float64
	PriceBucket   *model.PriceBucket
	Origin        *orb.Point
}

type ProductSearchUseCase interface {
	// SearchProducts はテキスト検索し、距離・価格帯で絞り込んでレスポンス形式で返す
	SearchProducts(ctx context.Context, q SearchQuery) ([]model.ProductView, error)

	// SearchByImage は画像から商品名を推定し、その名前で検索する
	SearchByImage(ctx context.Context, image string, origin *orb.Point) (*model.ImageSearchResult, error)
}

// productSearchUseCaseImpl はProductSearchUseCaseの実装
type productSearchUseCaseImpl struct {
	searchService service.SearchService
	recognizer    repository.ImageRecognitionRepository
	vocabulary    []string
}

// NewProductSearchUseCase は新しいProductSearchUseCaseインスタンスを作成
// vocabulary は起動時に読み込んだ商品名一覧
func NewProductSearchUseCase(
	searchService service.SearchService,
	recognizer repository.ImageRecognitionRepository,
	vocabulary []string,
) ProductSearchUseCase {
	return &productSearchUseCaseImpl{
		searchService: searchService,
		recognizer:    recognizer,
		vocabulary:    vocabulary,
	}
}

func (u *productSearchUseCaseImpl) SearchProducts(ctx context.Context, q SearchQuery) ([]model.ProductView, error) {
	groups, err := u.searchService.Search(ctx, q.Text, q.Origin)
	if err != nil {
		return nil, fmt.Errorf("商品検索に失敗: %w", err)
	}

	if q.MaxDistanceKm != nil {
		groups = service.FilterByDistance(groups, *q.MaxDistanceKm)
	}
	if q.PriceBucket != nil {
		groups = service.FilterByPriceBucket(groups, *q.PriceBucket)
	}

	log.Printf("✅ 商品検索完了: '%s' → %d件", q.Text, len(groups))
	return toProductViews(groups), nil
}

func (u *productSearchUseCaseImpl) SearchByImage(ctx context.Context, image string, origin *orb.Point) (*model.ImageSearchResult, error) {
	product, ok := u.recognizer.RecognizeProduct(ctx, image, u.vocabulary)
	if !ok {
		return &model.ImageSearchResult{
			Status:   "not_found",
			Products: []model.ProductView{},
			Message:  "画像に一致する商品が見つかりませんでした",
		}, nil
	}

	groups, err := u.searchService.Search(ctx, product, origin)
	if err != nil {
		return nil, fmt.Errorf("画像検索の商品検索に失敗: %w", err)
	}

	products := toProductViews(groups)
	return &model.ImageSearchResult{
		Status:     "success",
		Products:   products,
		SearchTerm: product,
		Message:    fmt.Sprintf("%d件の商品が見つかりました", len(products)),
	}, nil
}
