package model

import "errors"

var (
	// ErrNotFound 対象の商品・出品が存在しない場合のエラー
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput 入力値が不正な場合のエラー
	ErrInvalidInput = errors.New("invalid input")
)

// ProductRow product ⋈ location ⋈ product_store ⋈ store ⋈ product_images の1行
// LEFT JOINのため店舗・出品・画像側の列はNULLになり得る
type ProductRow struct {
	ProductID         int64    `json:"product_id" db:"product_id"`
	ProductName       *string  `json:"product_name" db:"product_name"`
	ProductDes        *string  `json:"product_des" db:"product_des"`
	ProductImageURL   *string  `json:"product_image_url" db:"product_image_url"`
	ProductLocationID *int64   `json:"product_location_id" db:"product_location_id"`
	ProductTag        *string  `json:"product_tag" db:"product_tag"`
	ProductMinCost    *float64 `json:"product_min_cost" db:"product_min_cost"`
	ProductMaxCost    *float64 `json:"product_max_cost" db:"product_max_cost"`

	LocationID      *int64   `json:"location_id" db:"location_id"`
	LocationName    *string  `json:"location_name" db:"location_name"`
	LocationMaxLong *float64 `json:"location_max_long" db:"location_max_long"`
	LocationMinLong *float64 `json:"location_min_long" db:"location_min_long"`
	LocationMaxLat  *float64 `json:"location_max_lat" db:"location_max_lat"`
	LocationMinLat  *float64 `json:"location_min_lat" db:"location_min_lat"`

	StoreID         *int64   `json:"store_id" db:"store_id"`
	StoreName       *string  `json:"store_name" db:"store_name"`
	StoreAddress    *string  `json:"store_address" db:"store_address"`
	StoreLat        *float64 `json:"store_lat" db:"store_lat"`
	StoreLong       *float64 `json:"store_long" db:"store_long"`
	StoreLocationID *int64   `json:"store_location_id" db:"store_location_id"`

	PSID            *int64   `json:"ps_id" db:"ps_id"`
	PSStoreID       *int64   `json:"ps_store_id" db:"ps_store_id"`
	PSProductID     *int64   `json:"ps_product_id" db:"ps_product_id"`
	PSAverageRating *float64 `json:"ps_average_rating" db:"ps_average_rating"`
	PSTotalReviews  *int64   `json:"ps_total_reviews" db:"ps_total_reviews"`
	PSMinPriceStore *float64 `json:"ps_min_price_store" db:"ps_min_price_store"`
	PSMaxPriceStore *float64 `json:"ps_max_price_store" db:"ps_max_price_store"`

	PSImageID  *int64  `json:"ps_image_id" db:"ps_image_id"`
	PSImageURL *string `json:"ps_image_url" db:"ps_image_url"`
	PSType     *string `json:"ps_type" db:"ps_type"`
}

// ProductInfo 商品レベルの項目
type ProductInfo struct {
	ProductID         int64    `json:"product_id"`
	ProductName       *string  `json:"product_name"`
	ProductDes        *string  `json:"product_des"`
	ProductImageURL   *string  `json:"product_image_url"`
	ProductLocationID *int64   `json:"product_location_id"`
	ProductTag        *string  `json:"product_tag"`
	ProductMinCost    *float64 `json:"product_min_cost"`
	ProductMaxCost    *float64 `json:"product_max_cost"`
}

// LocationInfo 商品が属する地域（境界ボックス付き）
type LocationInfo struct {
	LocationID      *int64   `json:"location_id"`
	LocationName    *string  `json:"location_name"`
	LocationMaxLong *float64 `json:"location_max_long"`
	LocationMinLong *float64 `json:"location_min_long"`
	LocationMaxLat  *float64 `json:"location_max_lat"`
	LocationMinLat  *float64 `json:"location_min_lat"`
}

// ProductImage 出品（product_store）に紐づく画像
type ProductImage struct {
	PSID       *int64  `json:"ps_id"`
	PSImageID  int64   `json:"ps_image_id"`
	PSImageURL *string `json:"ps_image_url"`
	PSType     *string `json:"ps_type"`
}

// StoreListing 商品を扱う店舗と、その店舗での価格・評価・画像
type StoreListing struct {
	StoreID         int64          `json:"store_id"`
	StoreName       *string        `json:"store_name"`
	StoreAddress    *string        `json:"store_address"`
	StoreLat        *float64       `json:"store_lat"`
	StoreLong       *float64       `json:"store_long"`
	StoreLocationID *int64         `json:"store_location_id"`
	PSID            *int64         `json:"ps_id"`
	PSAverageRating *float64       `json:"ps_average_rating"`
	PSTotalReviews  *int64         `json:"ps_total_reviews"`
	PSMinPriceStore *float64       `json:"ps_min_price_store"`
	PSMaxPriceStore *float64       `json:"ps_max_price_store"`
	DistanceKm      *float64       `json:"distance_km"` // ユーザー位置が不明な場合はnull
	ProductImages   []ProductImage `json:"product_images"`
}

// ProductGroup 1商品 → N店舗 → N画像 の入れ子構造
type ProductGroup struct {
	Product  ProductInfo    `json:"product"`
	Location LocationInfo   `json:"location"`
	Stores   []StoreListing `json:"store"`
}

// SuggestedProduct トップページのおすすめ商品
type SuggestedProduct struct {
	ProductID       int64    `json:"product_id" db:"product_id"`
	ProductName     *string  `json:"product_name" db:"product_name"`
	ProductImageURL *string  `json:"product_image_url" db:"product_image_url"`
	ProductTag      *string  `json:"product_tag" db:"product_tag"`
	ProductMinCost  *float64 `json:"product_min_cost" db:"product_min_cost"`
	ProductMaxCost  *float64 `json:"product_max_cost" db:"product_max_cost"`
}

// StoreSummary 地図表示用の店舗と取扱商品タグ
type StoreSummary struct {
	StoreID int64    `json:"store_id"`
	Name    string   `json:"name"`
	Address *string  `json:"address"`
	Lat     *float64 `json:"lat"`
	Long    *float64 `json:"long"`
	Tags    []string `json:"tags"`
}
