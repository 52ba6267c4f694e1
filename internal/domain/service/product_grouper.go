package service

import (
	"github.com/paulmach/orb"

	"Shoppy-App/internal/domain/helper"
	"Shoppy-App/internal/domain/model"
)

// GroupProducts はフラットな結合行を 商品 → 店舗 → 画像 の入れ子構造にまとめる
// 戻り値の順序は入力で商品IDが最初に現れた順。商品・店舗の項目は最初の行の値を採用する
// origin が指定されていれば各店舗にユーザーからの距離を付与する
func GroupProducts(rows []model.ProductRow, origin *orb.Point) []model.ProductGroup {
	groups := make([]model.ProductGroup, 0)
	productIndex := make(map[int64]int)
	// 商品ごとの 店舗ID → stores内の位置
	storeIndex := make(map[int64]map[int64]int)
	// 商品・店舗ごとの登録済み画像ID
	seenImages := make(map[int64]map[int64]map[int64]struct{})

	for i := range rows {
		row := &rows[i]

		pi, exists := productIndex[row.ProductID]
		if !exists {
			pi = len(groups)
			productIndex[row.ProductID] = pi
			storeIndex[row.ProductID] = make(map[int64]int)
			seenImages[row.ProductID] = make(map[int64]map[int64]struct{})
			groups = append(groups, model.ProductGroup{
				Product:  productInfoFromRow(row),
				Location: locationInfoFromRow(row),
				Stores:   []model.StoreListing{},
			})
		}

		// 店舗IDがNULLの行は商品レベルの情報のみ
		if row.StoreID == nil {
			continue
		}
		storeID := *row.StoreID

		si, ok := storeIndex[row.ProductID][storeID]
		if !ok {
			si = len(groups[pi].Stores)
			storeIndex[row.ProductID][storeID] = si
			seenImages[row.ProductID][storeID] = make(map[int64]struct{})
			groups[pi].Stores = append(groups[pi].Stores, storeListingFromRow(row, storeID, origin))
		}

		if row.PSImageID == nil {
			continue
		}
		imageID := *row.PSImageID
		if _, dup := seenImages[row.ProductID][storeID][imageID]; dup {
			continue
		}
		seenImages[row.ProductID][storeID][imageID] = struct{}{}
		groups[pi].Stores[si].ProductImages = append(groups[pi].Stores[si].ProductImages, model.ProductImage{
			PSID:       row.PSID,
			PSImageID:  imageID,
			PSImageURL: row.PSImageURL,
			PSType:     row.PSType,
		})
	}

	return groups
}

func productInfoFromRow(row *model.ProductRow) model.ProductInfo {
	return model.ProductInfo{
		ProductID:         row.ProductID,
		ProductName:       row.ProductName,
		ProductDes:        row.ProductDes,
		ProductImageURL:   row.ProductImageURL,
		ProductLocationID: row.ProductLocationID,
		ProductTag:        row.ProductTag,
		ProductMinCost:    row.ProductMinCost,
		ProductMaxCost:    row.ProductMaxCost,
	}
}

func locationInfoFromRow(row *model.ProductRow) model.LocationInfo {
	return model.LocationInfo{
		LocationID:      row.LocationID,
		LocationName:    row.LocationName,
		LocationMaxLong: row.LocationMaxLong,
		LocationMinLong: row.LocationMinLong,
		LocationMaxLat:  row.LocationMaxLat,
		LocationMinLat:  row.LocationMinLat,
	}
}

func storeListingFromRow(row *model.ProductRow, storeID int64, origin *orb.Point) model.StoreListing {
	return model.StoreListing{
		StoreID:         storeID,
		StoreName:       row.StoreName,
		StoreAddress:    row.StoreAddress,
		StoreLat:        row.StoreLat,
		StoreLong:       row.StoreLong,
		StoreLocationID: row.StoreLocationID,
		PSID:            row.PSID,
		PSAverageRating: row.PSAverageRating,
		PSTotalReviews:  row.PSTotalReviews,
		PSMinPriceStore: row.PSMinPriceStore,
		PSMaxPriceStore: row.PSMaxPriceStore,
		DistanceKm:      helper.DistanceKm(origin, helper.StorePoint(row.StoreLat, row.StoreLong)),
		ProductImages:   []model.ProductImage{},
	}
}
