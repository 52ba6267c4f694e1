package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"

	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/usecase"
)

// SearchHandler は商品検索APIのハンドラー
type SearchHandler struct {
	searchUseCase usecase.ProductSearchUseCase
}

// NewSearchHandler は新しいSearchHandlerインスタンスを作成
func NewSearchHandler(searchUseCase usecase.ProductSearchUseCase) *SearchHandler {
	return &SearchHandler{
		searchUseCase: searchUseCase,
	}
}

// GetProducts は商品をテキスト検索するエンドポイント
// GET /api/products?search=&distance=&price=&lat=&lng=
func (h *SearchHandler) GetProducts(c *gin.Context) {
	query, err := parseSearchQuery(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	products, err := h.searchUseCase.SearchProducts(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "商品検索に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, products)
}

// PostSearchByImage は画像から商品を検索するエンドポイント
// POST /api/search-by-image
func (h *SearchHandler) PostSearchByImage(c *gin.Context) {
	var req model.ImageSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "画像データがありません",
		})
		return
	}

	origin, err := parseOrigin(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.searchUseCase.SearchByImage(c.Request.Context(), req.Image, origin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "画像検索に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseSearchQuery はクエリパラメータを検証して検索条件に変換する
// 空のパラメータは未指定として扱う
func parseSearchQuery(c *gin.Context) (usecase.SearchQuery, error) {
	q := usecase.SearchQuery{Text: c.Query("search")}

	if raw := strings.TrimSpace(c.Query("distance")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || !isFinite(d) || d < 0 {
			return q, &ValidationError{Field: "distance", Message: "distanceは0以上の数値で指定してください"}
		}
		q.MaxDistanceKm = &d
	}

	if raw := strings.TrimSpace(c.Query("price")); raw != "" {
		bucket, ok := model.LookupPriceBucket(raw)
		if !ok {
			return q, &ValidationError{Field: "price", Message: "priceは1から6で指定してください"}
		}
		q.PriceBucket = &bucket
	}

	origin, err := parseOrigin(c)
	if err != nil {
		return q, err
	}
	q.Origin = origin

	return q, nil
}

// parseOrigin は lat/lng クエリパラメータからユーザー位置を取得する。両方なければ nil
func parseOrigin(c *gin.Context) (*orb.Point, error) {
	rawLat := strings.TrimSpace(c.Query("lat"))
	rawLng := strings.TrimSpace(c.Query("lng"))
	if rawLat == "" && rawLng == "" {
		return nil, nil
	}
	if rawLat == "" || rawLng == "" {
		return nil, &ValidationError{Field: "lat,lng", Message: "latとlngは両方指定してください"}
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil || !isFinite(lat) || lat < -90 || lat > 90 {
		return nil, &ValidationError{Field: "lat", Message: "緯度は-90から90の範囲で指定してください"}
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil || !isFinite(lng) || lng < -180 || lng > 180 {
		return nil, &ValidationError{Field: "lng", Message: "経度は-180から180の範囲で指定してください"}
	}

	p := model.NewPoint(lat, lng)
	return &p, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
