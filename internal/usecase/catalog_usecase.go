package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/domain/repository"
	"Shoppy-App/internal/domain/service"
)

type CatalogUseCase interface {
	// ProductSummary は商品1件を全店舗分まとめて返す。存在しなければ空
	ProductSummary(ctx context.Context, productID int64) ([]model.ProductView, error)

	// CartDetails はカートの各キー "<product_id>_<store_id>" に商品・店舗情報と数量を付けて返す
	// 不正なキーや見つからない商品は結果から除く
	CartDetails(ctx context.Context, cart map[string]int) (map[string]model.ProductView, error)

	// ListStores は地図表示用に全店舗と取扱商品タグを返す
	ListStores(ctx context.Context) ([]model.StoreSummary, error)
}

// catalogUseCaseImpl はCatalogUseCaseの実装
type catalogUseCaseImpl struct {
	catalogRepo    repository.CatalogRepository
	listingFetcher *service.ParallelListingFetcher
}

// NewCatalogUseCase は新しいCatalogUseCaseインスタンスを作成
func NewCatalogUseCase(catalogRepo repository.CatalogRepository) CatalogUseCase {
	return &catalogUseCaseImpl{
		catalogRepo:    catalogRepo,
		listingFetcher: service.NewParallelListingFetcher(catalogRepo),
	}
}

func (u *catalogUseCaseImpl) ProductSummary(ctx context.Context, productID int64) ([]model.ProductView, error) {
	rows, err := u.catalogRepo.FetchByProductStore(ctx, productID, nil)
	if err != nil {
		return nil, fmt.Errorf("商品サマリーの取得に失敗: %w", err)
	}

	groups := service.GroupProducts(rows, nil)
	if len(groups) == 0 {
		return []model.ProductView{}, nil
	}

	return []model.ProductView{toProductView(groups[0], true)}, nil
}

func (u *catalogUseCaseImpl) CartDetails(ctx context.Context, cart map[string]int) (map[string]model.ProductView, error) {
	keys := make([]service.ListingKey, 0, len(cart))
	for key := range cart {
		productID, storeID, ok := parseCartKey(key)
		if !ok {
			log.Printf("⚠️ カートキー '%s' が不正なためスキップ (product_id_store_id 形式が必要)", key)
			continue
		}
		keys = append(keys, service.ListingKey{Key: key, ProductID: productID, StoreID: storeID})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Key < keys[j].Key })

	listings, err := u.listingFetcher.FetchListings(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("カート商品の取得に失敗: %w", err)
	}

	details := make(map[string]model.ProductView, len(listings))
	for _, l := range listings {
		groups := service.GroupProducts(l.Rows, nil)
		if len(groups) == 0 || len(groups[0].Stores) == 0 {
			log.Printf("⚠️ カート商品 %s が見つからないためスキップ", l.Key.Key)
			continue
		}

		view := toProductView(groups[0], false)
		view.Stores = view.Stores[:1]
		qty := cart[l.Key.Key]
		view.Stores[0].Qty = &qty
		details[l.Key.Key] = view
	}

	return details, nil
}

func (u *catalogUseCaseImpl) ListStores(ctx context.Context) ([]model.StoreSummary, error) {
	stores, err := u.catalogRepo.StoresWithTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("店舗一覧の取得に失敗: %w", err)
	}
	return stores, nil
}

// parseCartKey は "<product_id>_<store_id>" を分解する
func parseCartKey(key string) (productID, storeID int64, ok bool) {
	parts := strings.Split(key, "_")
	if len(parts) != 2 {
		return 0, 0, false
	}
	productID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	storeID, err = strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return productID, storeID, true
}
