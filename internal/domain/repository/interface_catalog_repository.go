package repository

import (
	"context"

	"github.com/paulmach/orb"

	"Shoppy-App/internal/domain/model"
)

// CatalogRepository 商品カタログ（product / location / store / product_store / product_images）の読み取り
type CatalogRepository interface {
	// FetchAll 絞り込みなしで全結合行を取得（検索語が空の「全件表示」用）
	FetchAll(ctx context.Context) ([]model.ProductRow, error)
	// FetchBySearch 商品名の部分一致（アクセント無視）で結合行を取得
	FetchBySearch(ctx context.Context, searchText string) ([]model.ProductRow, error)
	// FetchByProductStore 商品ID（と任意の店舗ID）で結合行を取得
	FetchByProductStore(ctx context.Context, productID int64, storeID *int64) ([]model.ProductRow, error)

	ProductNames(ctx context.Context) ([]string, error)
	FindLocationByName(ctx context.Context, name string) (*model.Location, error)
	FindLocationByPoint(ctx context.Context, point orb.Point) (*model.Location, error)
	ProductsByLocation(ctx context.Context, locationID int64, limit int) ([]model.SuggestedProduct, error)
	StoresWithTags(ctx context.Context) ([]model.StoreSummary, error)
}
