package handler

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// HealthCheckFunc はバックエンドへの接続確認。失敗時はエラーを返す
type HealthCheckFunc func() error

// Handlers はルーターに登録するハンドラー一式
type Handlers struct {
	Search  *SearchHandler
	Catalog *CatalogHandler
	Reviews *ReviewsHandler

	// HealthChecks は /api/health で確認するバックエンド（名前 → 確認処理）
	HealthChecks map[string]HealthCheckFunc
}

// NewRouter はミドルウェアとエンドポイントを登録したGinエンジンを返す
func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestID())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders:   []string{requestIDHeader},
	}))

	api := r.Group("/api")
	{
		api.GET("/health", health(h.HealthChecks))

		api.GET("/products", h.Search.GetProducts)
		api.POST("/search-by-image", h.Search.PostSearchByImage)

		api.GET("/product_summary", h.Catalog.GetProductSummary)
		api.POST("/cart/details", h.Catalog.PostCartDetails)
		api.POST("/suggest_products", h.Catalog.PostSuggestProducts)

		api.GET("/ps_id_lookup", h.Reviews.GetListingID)
		api.GET("/product_detail/:ps_id", h.Reviews.GetListingDetail)
		api.GET("/reviews/:ps_id", h.Reviews.GetReviews)
		api.POST("/reviews", h.Reviews.CreateReview)
	}

	r.GET("/map/api/stores", h.Catalog.GetStores)

	return r
}

// requestID はリクエストIDをコンテキストとレスポンスヘッダに設定する
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext はミドルウェアが設定したリクエストIDを返す
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// health は各バックエンドを確認し、1つでも失敗すれば 503 を返す
func health(checks map[string]HealthCheckFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(); err != nil {
				log.Printf("❌ ヘルスチェック失敗 (%s): %v", name, err)
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":     state,
			"service":    "Shoppy-App",
			"request_id": RequestIDFromContext(c),
			"checks":     results,
		})
	}
}
