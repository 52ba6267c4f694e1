package model

// Review 出品に対するレビュー
type Review struct {
	ReviewID  int64  `json:"review_id"`
	PSID      int64  `json:"ps_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// CreateReviewRequest POST /api/reviews のリクエストボディ
type CreateReviewRequest struct {
	PSID    int64  `json:"ps_id" binding:"required"`
	UserID  string `json:"user_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ReviewSummary レビュー一覧と集計値
type ReviewSummary struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	TotalReviews  int64    `json:"total_reviews"`
}

// ListingDetail 出品詳細（レビュー集計付き）
type ListingDetail struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	StoreID     int64   `json:"store_id"`
	Name        string  `json:"name"`
	SubName     string  `json:"sub_name"`
	Price       float64 `json:"price"`
	Img         string  `json:"img"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Rating      float64 `json:"rating"`
	ReviewCount int64   `json:"review_count"`
}
