package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/usecase"
)

// CatalogHandler は商品詳細・カート・地図・おすすめ商品APIのハンドラー
type CatalogHandler struct {
	catalogUseCase usecase.CatalogUseCase
	suggestUseCase usecase.SuggestUseCase
}

// NewCatalogHandler は新しいCatalogHandlerインスタンスを作成
func NewCatalogHandler(catalogUseCase usecase.CatalogUseCase, suggestUseCase usecase.SuggestUseCase) *CatalogHandler {
	return &CatalogHandler{
		catalogUseCase: catalogUseCase,
		suggestUseCase: suggestUseCase,
	}
}

// GetProductSummary GET /api/product_summary?product_id=
func (h *CatalogHandler) GetProductSummary(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Query("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondValidationError(c, &ValidationError{Field: "product_id", Message: "product_idは正の整数で指定してください"})
		return
	}

	summary, err := h.catalogUseCase.ProductSummary(c.Request.Context(), productID)
	if err != nil {
		respondError(c, "商品", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// PostCartDetails POST /api/cart/details
func (h *CatalogHandler) PostCartDetails(c *gin.Context) {
	var req model.CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	details, err := h.catalogUseCase.CartDetails(c.Request.Context(), req.Cart)
	if err != nil {
		respondError(c, "カート商品", err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// PostSuggestProducts POST /api/suggest_products
func (h *CatalogHandler) PostSuggestProducts(c *gin.Context) {
	var req model.SuggestRequest
	// ボディなしは既定の地域として扱う
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		respondValidationError(c, &ValidationError{Field: "latitude,longitude", Message: "latitudeとlongitudeは両方指定してください"})
		return
	}
	if req.Limit < 0 {
		respondValidationError(c, &ValidationError{Field: "limit", Message: "limitは0以上で指定してください"})
		return
	}

	resp, err := h.suggestUseCase.Suggest(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "おすすめ商品", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetStores GET /map/api/stores
func (h *CatalogHandler) GetStores(c *gin.Context) {
	stores, err := h.catalogUseCase.ListStores(c.Request.Context())
	if err != nil {
		respondError(c, "店舗一覧", err)
		return
	}

	c.JSON(http.StatusOK, stores)
}
