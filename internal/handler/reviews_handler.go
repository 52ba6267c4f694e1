package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Shoppy-App/internal/application"
	"Shoppy-App/internal/domain/model"
)

// ReviewsHandler 出品詳細とレビューに関するHTTPハンドラー
type ReviewsHandler struct {
	reviewsService application.ReviewsService
}

// NewReviewsHandler ReviewsHandlerの新しいインスタンスを作成
func NewReviewsHandler(reviewsService application.ReviewsService) *ReviewsHandler {
	return &ReviewsHandler{
		reviewsService: reviewsService,
	}
}

// GetListingID GET /api/ps_id_lookup?product_id=&store_id= - 出品IDの検索
func (h *ReviewsHandler) GetListingID(c *gin.Context) {
	productID, err1 := strconv.ParseInt(c.Query("product_id"), 10, 64)
	storeID, err2 := strconv.ParseInt(c.Query("store_id"), 10, 64)
	if err1 != nil || err2 != nil {
		respondValidationError(c, &ValidationError{Field: "product_id,store_id", Message: "product_idとstore_idは必須です"})
		return
	}

	psID, err := h.reviewsService.LookupListing(c.Request.Context(), productID, storeID)
	if err != nil {
		respondError(c, "出品", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ps_id": psID})
}

// GetListingDetail GET /api/product_detail/:ps_id - 出品詳細の取得
func (h *ReviewsHandler) GetListingDetail(c *gin.Context) {
	psID, ok := parsePSID(c)
	if !ok {
		return
	}

	detail, err := h.reviewsService.GetListingDetail(c.Request.Context(), psID)
	if err != nil {
		respondError(c, "出品", err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetReviews GET /api/reviews/:ps_id - レビュー一覧の取得
func (h *ReviewsHandler) GetReviews(c *gin.Context) {
	psID, ok := parsePSID(c)
	if !ok {
		return
	}

	summary, err := h.reviewsService.ListReviews(c.Request.Context(), psID)
	if err != nil {
		respondError(c, "レビュー", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// CreateReview POST /api/reviews - レビューの投稿
func (h *ReviewsHandler) CreateReview(c *gin.Context) {
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.reviewsService.CreateReview(c.Request.Context(), &req); err != nil {
		respondError(c, "出品", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "レビューを投稿しました"})
}

func parsePSID(c *gin.Context) (int64, bool) {
	psID, err := strconv.ParseInt(c.Param("ps_id"), 10, 64)
	if err != nil || psID <= 0 {
		respondValidationError(c, &ValidationError{Field: "ps_id", Message: "ps_idは正の整数で指定してください"})
		return 0, false
	}
	return psID, true
}
