package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"Shoppy-App/internal/application"
	"Shoppy-App/internal/config"
	"Shoppy-App/internal/domain/helper"
	domainrepo "Shoppy-App/internal/domain/repository"
	"Shoppy-App/internal/domain/service"
	"Shoppy-App/internal/handler"
	"Shoppy-App/internal/infrastructure/ai"
	"Shoppy-App/internal/infrastructure/database"
	"Shoppy-App/internal/repository"
	"Shoppy-App/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}
	cfg.Print()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalogRepo, catalogHealth, closeCatalog, err := newCatalogRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	sqliteClient, err := database.NewSQLiteClient(cfg.ReviewsDBPath)
	if err != nil {
		return fmt.Errorf("SQLiteクライアント初期化失敗: %w", err)
	}
	defer sqliteClient.Close()
	log.Printf("✅ レビューDB接続成功: %s", cfg.ReviewsDBPath)

	// 商品名の語彙は起動時に1回だけ読み込む
	names, err := catalogRepo.ProductNames(ctx)
	if err != nil {
		return fmt.Errorf("商品名一覧の取得失敗: %w", err)
	}
	vocabulary := helper.UniqueNames(names)
	log.Printf("✅ 商品名の語彙を読み込み: %d件", len(vocabulary))

	// Groqはキーごとにクライアントを分ける（画像認識はタイムアウトを長めに）
	fixTextClient := ai.NewGroqClient(cfg.Groq.BaseURL, cfg.Groq.FixTextAPIKey, cfg.Groq.Timeout)
	locationClient := ai.NewGroqClient(cfg.Groq.BaseURL, cfg.Groq.LocationAPIKey, cfg.Groq.Timeout)
	visionClient := ai.NewGroqClient(cfg.Groq.BaseURL, cfg.Groq.ImageAPIKey, cfg.Groq.VisionTimeout)
	for name, c := range map[string]*ai.GroqClient{"fix_text": fixTextClient, "location": locationClient, "search_image": visionClient} {
		if !c.HasAPIKey() {
			log.Printf("⚠️ Groq APIキー (%s) が未設定です。AI機能は元の入力で動作します", name)
		}
	}

	queryFixer := ai.NewGroqQueryFixer(fixTextClient, vocabulary)
	standardizer := ai.NewGroqLocationStandardizer(locationClient)
	recognizer := ai.NewGroqImageRecognizer(visionClient)

	// Dependency injection
	searchService := service.NewSearchService(catalogRepo, queryFixer)
	searchUseCase := usecase.NewProductSearchUseCase(searchService, recognizer, vocabulary)
	catalogUseCase := usecase.NewCatalogUseCase(catalogRepo)
	suggestUseCase := usecase.NewSuggestUseCase(catalogRepo, standardizer)
	reviewsService := application.NewReviewsService(repository.NewSQLiteReviewsRepository(sqliteClient))

	healthChecks := map[string]handler.HealthCheckFunc{
		"catalog": catalogHealth,
		"reviews": sqliteClient.HealthCheck,
	}
	router := handler.NewRouter(handler.Handlers{
		Search:       handler.NewSearchHandler(searchUseCase),
		Catalog:      handler.NewCatalogHandler(catalogUseCase, suggestUseCase),
		Reviews:      handler.NewReviewsHandler(reviewsService),
		HealthChecks: healthChecks,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Shoppy-App server starting on %s...", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTPサーバーの起動失敗: %w", err)
		}
	case <-ctx.Done():
		log.Println("🛑 シャットダウンを開始します")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止失敗: %w", err)
	}
	log.Println("✅ サーバーを停止しました")
	return nil
}

// newCatalogRepository は設定されたバックエンドの商品カタログリポジトリを作成する
// 戻り値はリポジトリ・ヘルスチェック・終了処理
func newCatalogRepository(ctx context.Context, cfg config.Config) (domainrepo.CatalogRepository, handler.HealthCheckFunc, func(), error) {
	switch cfg.CatalogBackend {
	case config.BackendSupabase:
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("Supabaseクライアント初期化失敗: %w", err)
		}
		if err := client.HealthCheck(); err != nil {
			return nil, nil, nil, fmt.Errorf("Supabaseヘルスチェック失敗: %w", err)
		}
		log.Printf("✅ Supabase接続成功: %s", client.URL())
		return repository.NewSupabaseCatalogRepository(client), client.HealthCheck, func() {}, nil
	default:
		client, err := database.NewPostgreSQLClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("PostgreSQLクライアント初期化失敗: %w", err)
		}
		log.Println("✅ PostgreSQL接続成功")
		return repository.NewPostgresCatalogRepository(client), client.HealthCheck, func() { _ = client.Close() }, nil
	}
}
