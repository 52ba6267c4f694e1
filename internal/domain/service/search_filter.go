package service

import "Shoppy-App/internal/domain/model"

// FilterByDistance は距離が不明、または maxKm を超える店舗を除外する
// 店舗が0件になった商品は結果から外す
func FilterByDistance(groups []model.ProductGroup, maxKm float64) []model.ProductGroup {
	return filterStores(groups, func(s *model.StoreListing) bool {
		return s.DistanceKm != nil && *s.DistanceKm <= maxKm
	})
}

// FilterByPriceBucket は店舗の価格帯 [min, max] が bucket と重ならない店舗を除外する
// 価格が未設定の店舗も除外。店舗が0件になった商品は結果から外す
func FilterByPriceBucket(groups []model.ProductGroup, bucket model.PriceBucket) []model.ProductGroup {
	return filterStores(groups, func(s *model.StoreListing) bool {
		if s.PSMinPriceStore == nil || s.PSMaxPriceStore == nil {
			return false
		}
		return bucket.Overlaps(*s.PSMinPriceStore, *s.PSMaxPriceStore)
	})
}

func filterStores(groups []model.ProductGroup, keep func(*model.StoreListing) bool) []model.ProductGroup {
	filtered := make([]model.ProductGroup, 0, len(groups))
	for _, g := range groups {
		stores := make([]model.StoreListing, 0, len(g.Stores))
		for i := range g.Stores {
			if keep(&g.Stores[i]) {
				stores = append(stores, g.Stores[i])
			}
		}
		if len(stores) == 0 {
			continue
		}
		g.Stores = stores
		filtered = append(filtered, g)
	}
	return filtered
}
