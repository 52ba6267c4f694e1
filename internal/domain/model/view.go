package model

// ProductView 商品一覧系APIのレスポンス1件（商品 + 店舗 + 画像）
type ProductView struct {
	ProductID       int64       `json:"product_id"`
	ProductName     *string     `json:"product_name"`
	ProductDes      *string     `json:"product_des"`
	ProductImageURL *string     `json:"product_image_url"`
	LocationName    *string     `json:"location_name"`
	ProductMinCost  *float64    `json:"product_min_cost"`
	ProductMaxCost  *float64    `json:"product_max_cost"`
	Stores          []StoreView `json:"stores"`
}

// StoreView 商品を扱う店舗。評価は商品サマリー、数量はカート詳細でのみ設定される
type StoreView struct {
	StoreID         int64          `json:"store_id"`
	StoreName       *string        `json:"store_name"`
	StoreAddress    *string        `json:"store_address"`
	StoreLat        *float64       `json:"store_lat"`
	StoreLong       *float64       `json:"store_long"`
	DistanceKm      *float64       `json:"distance_km"`
	PSMinPriceStore *float64       `json:"ps_min_price_store"`
	PSMaxPriceStore *float64       `json:"ps_max_price_store"`
	PSAverageRating *float64       `json:"ps_average_rating,omitempty"`
	PSTotalReviews  *int64         `json:"ps_total_reviews,omitempty"`
	Qty             *int           `json:"qty,omitempty"`
	ProductImages   []ProductImage `json:"product_images"`
}

// ImageSearchResult POST /api/search-by-image のレスポンス
type ImageSearchResult struct {
	Status     string        `json:"status"`
	Products   []ProductView `json:"products"`
	SearchTerm string        `json:"search_term,omitempty"`
	Message    string        `json:"message"`
}

// SuggestRequest POST /api/suggest_products のリクエストボディ
type SuggestRequest struct {
	LocationName string   `json:"location_name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Limit        int      `json:"limit"`
}

// SuggestItem おすすめ商品1件
type SuggestItem struct {
	ProductID       int64    `json:"product_id"`
	ProductName     *string  `json:"product_name"`
	ProductImageURL *string  `json:"product_image_url"`
	ProductTag      *string  `json:"product_tag"`
	MinPrice        *float64 `json:"min_price"`
	MaxPrice        *float64 `json:"max_price"`
}

// SuggestResponse POST /api/suggest_products のレスポンス
type SuggestResponse struct {
	Status       string        `json:"status"`
	Count        int           `json:"count"`
	LocationName *string       `json:"location_name"`
	Products     []SuggestItem `json:"products"`
}

// CartRequest POST /api/cart/details のリクエストボディ（キーは "<product_id>_<store_id>"）
type CartRequest struct {
	Cart map[string]int `json:"cart"`
}

// ImageSearchRequest POST /api/search-by-image のリクエストボディ
// image は画像URL・data URL・base64文字列のいずれか
type ImageSearchRequest struct {
	Image string `json:"image" binding:"required"`
}
