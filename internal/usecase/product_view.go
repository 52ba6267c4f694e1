package usecase

import "Shoppy-App/internal/domain/model"

// toProductViews は入れ子構造をレスポンス形式に変換する
func toProductViews(groups []model.ProductGroup) []model.ProductView {
	views := make([]model.ProductView, 0, len(groups))
	for _, g := range groups {
		views = append(views, toProductView(g, false))
	}
	return views
}

// toProductView は1商品をレスポンス形式に変換する。withRatings で店舗ごとの評価を含める
func toProductView(g model.ProductGroup, withRatings bool) model.ProductView {
	stores := make([]model.StoreView, 0, len(g.Stores))
	for _, s := range g.Stores {
		sv := model.StoreView{
			StoreID:         s.StoreID,
			StoreName:       s.StoreName,
			StoreAddress:    s.StoreAddress,
			StoreLat:        s.StoreLat,
			StoreLong:       s.StoreLong,
			DistanceKm:      s.DistanceKm,
			PSMinPriceStore: s.PSMinPriceStore,
			PSMaxPriceStore: s.PSMaxPriceStore,
			ProductImages:   s.ProductImages,
		}
		if withRatings {
			sv.PSAverageRating = s.PSAverageRating
			sv.PSTotalReviews = s.PSTotalReviews
		}
		stores = append(stores, sv)
	}

	return model.ProductView{
		ProductID:       g.Product.ProductID,
		ProductName:     g.Product.ProductName,
		ProductDes:      g.Product.ProductDes,
		ProductImageURL: g.Product.ProductImageURL,
		LocationName:    g.Location.LocationName,
		ProductMinCost:  g.Product.ProductMinCost,
		ProductMaxCost:  g.Product.ProductMaxCost,
		Stores:          stores,
	}
}
