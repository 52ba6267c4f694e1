package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/domain/repository"
)

const (
	defaultSuggestLimit = 8
	maxSuggestLimit     = 100
	// 地域を特定できなかった場合に使う地域
	defaultLocationID int64 = 1
)

type SuggestUseCase interface {
	// Suggest はユーザーの地域（地名 → GPS → 既定の地域の順）のおすすめ商品を返す
	Suggest(ctx context.Context, req *model.SuggestRequest) (*model.SuggestResponse, error)
}

// suggestUseCaseImpl はSuggestUseCaseの実装
type suggestUseCaseImpl struct {
	catalogRepo  repository.CatalogRepository
	standardizer repository.LocationStandardizationRepository
}

// NewSuggestUseCase は新しいSuggestUseCaseインスタンスを作成
func NewSuggestUseCase(catalogRepo repository.CatalogRepository, standardizer repository.LocationStandardizationRepository) SuggestUseCase {
	return &suggestUseCaseImpl{
		catalogRepo:  catalogRepo,
		standardizer: standardizer,
	}
}

func (u *suggestUseCaseImpl) Suggest(ctx context.Context, req *model.SuggestRequest) (*model.SuggestResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	locationID := defaultLocationID
	var locationName *string
	if loc := u.resolveLocation(ctx, req); loc != nil {
		locationID = loc.LocationID
		name := loc.Name
		locationName = &name
	} else {
		log.Printf("⚠️ 地域を特定できないため既定の地域 (%d) を使用", defaultLocationID)
	}

	products, err := u.catalogRepo.ProductsByLocation(ctx, locationID, limit)
	if err != nil {
		return nil, fmt.Errorf("おすすめ商品の取得に失敗: %w", err)
	}

	items := make([]model.SuggestItem, 0, len(products))
	for _, p := range products {
		items = append(items, model.SuggestItem{
			ProductID:       p.ProductID,
			ProductName:     p.ProductName,
			ProductImageURL: p.ProductImageURL,
			ProductTag:      p.ProductTag,
			MinPrice:        p.ProductMinCost,
			MaxPrice:        p.ProductMaxCost,
		})
	}

	return &model.SuggestResponse{
		Status:       "success",
		Count:        len(items),
		LocationName: locationName,
		Products:     items,
	}, nil
}

// resolveLocation は 標準化した地名 → 入力そのままの地名 → GPS の順に地域を探す
func (u *suggestUseCaseImpl) resolveLocation(ctx context.Context, req *model.SuggestRequest) *model.Location {
	if name := strings.TrimSpace(req.LocationName); name != "" {
		if standardized, ok := u.standardizer.StandardizeLocation(ctx, name); ok {
			if loc := u.findByName(ctx, standardized); loc != nil {
				return loc
			}
		}
		if loc := u.findByName(ctx, name); loc != nil {
			return loc
		}
	}

	if req.Latitude != nil && req.Longitude != nil {
		loc, err := u.catalogRepo.FindLocationByPoint(ctx, model.NewPoint(*req.Latitude, *req.Longitude))
		if err == nil {
			return loc
		}
		if !errors.Is(err, model.ErrNotFound) {
			log.Printf("⚠️ GPSによる地域検索に失敗: %v", err)
		}
	}

	return nil
}

func (u *suggestUseCaseImpl) findByName(ctx context.Context, name string) *model.Location {
	loc, err := u.catalogRepo.FindLocationByName(ctx, name)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			log.Printf("⚠️ 地域名 '%s' の検索に失敗: %v", name, err)
		}
		return nil
	}
	return loc
}
