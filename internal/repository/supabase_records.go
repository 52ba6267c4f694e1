package repository

import (
	"Shoppy-App/internal/domain/helper"
	"Shoppy-App/internal/domain/model"
)

// productRecord Supabase の product テーブルの行
type productRecord struct {
	ProductID int64    `json:"product_id"`
	Name      *string  `json:"name"`
	ImageURL  *string  `json:"image_url"`
	Tag       *string  `json:"tag"`
	MinCost   *float64 `json:"min_cost"`
	MaxCost   *float64 `json:"max_cost"`
}

func (r productRecord) toSuggested() model.SuggestedProduct {
	return model.SuggestedProduct{
		ProductID:       r.ProductID,
		ProductName:     r.Name,
		ProductImageURL: r.ImageURL,
		ProductTag:      r.Tag,
		ProductMinCost:  r.MinCost,
		ProductMaxCost:  r.MaxCost,
	}
}

// locationRecord Supabase の location テーブルの行
type locationRecord struct {
	LocationID int64    `json:"location_id"`
	Name       string   `json:"name"`
	MaxLong    *float64 `json:"max_long"`
	MinLong    *float64 `json:"min_long"`
	MaxLat     *float64 `json:"max_lat"`
	MinLat     *float64 `json:"min_lat"`
}

// toLocation 境界ボックスが欠けている地域は ok=false
func (r locationRecord) toLocation() (*model.Location, bool) {
	if r.MaxLong == nil || r.MinLong == nil || r.MaxLat == nil || r.MinLat == nil {
		return nil, false
	}
	return &model.Location{
		LocationID: r.LocationID,
		Name:       r.Name,
		MaxLong:    *r.MaxLong,
		MinLong:    *r.MinLong,
		MaxLat:     *r.MaxLat,
		MinLat:     *r.MinLat,
	}, true
}

// storeRecord store と埋め込み product_store(product(tag)) の行
type storeRecord struct {
	StoreID      int64    `json:"store_id"`
	Name         string   `json:"name"`
	Address      *string  `json:"address"`
	Lat          *float64 `json:"lat"`
	Long         *float64 `json:"long"`
	ProductStore []struct {
		Product *struct {
			Tag *string `json:"tag"`
		} `json:"product"`
	} `json:"product_store"`
}

func (r storeRecord) toSummary() model.StoreSummary {
	tags := make([]string, 0, len(r.ProductStore))
	for _, rel := range r.ProductStore {
		if rel.Product != nil && rel.Product.Tag != nil {
			tags = append(tags, *rel.Product.Tag)
		}
	}
	return model.StoreSummary{
		StoreID: r.StoreID,
		Name:    r.Name,
		Address: r.Address,
		Lat:     r.Lat,
		Long:    r.Long,
		Tags:    helper.NormalizeTags(tags),
	}
}
