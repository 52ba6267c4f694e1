package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/domain/repository"
)

const defaultMaxGoroutines = 5

// ListingKey はカートの1項目（商品ID + 店舗ID）
type ListingKey struct {
	Key       string
	ProductID int64
	StoreID   int64
}

// ListingResult は1項目分の取得結果
type ListingResult struct {
	Key  ListingKey
	Rows []model.ProductRow
}

// ParallelListingFetcher は複数の出品を並行で取得する
type ParallelListingFetcher struct {
	catalogRepo   repository.CatalogRepository
	maxGoroutines int
}

// NewParallelListingFetcher は新しい並行取得インスタンスを作成
func NewParallelListingFetcher(catalogRepo repository.CatalogRepository) *ParallelListingFetcher {
	return &ParallelListingFetcher{
		catalogRepo:   catalogRepo,
		maxGoroutines: defaultMaxGoroutines, // 同時実行数を制限
	}
}

type indexedResult struct {
	index  int
	result ListingResult
	err    error
}

// FetchListings は keys の順で結果を返す。1件でも取得に失敗した場合はエラー
func (p *ParallelListingFetcher) FetchListings(ctx context.Context, keys []ListingKey) ([]ListingResult, error) {
	if len(keys) == 0 {
		return []ListingResult{}, nil
	}

	start := time.Now()

	// セマフォを使用して同時実行数を制限
	semaphore := make(chan struct{}, p.maxGoroutines)
	results := make(chan indexedResult, len(keys))
	var wg sync.WaitGroup

	for i, key := range keys {
		wg.Add(1)
		go func(index int, key ListingKey) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			storeID := key.StoreID
			rows, err := p.catalogRepo.FetchByProductStore(ctx, key.ProductID, &storeID)
			if err != nil {
				results <- indexedResult{index: index, err: fmt.Errorf("出品 %s の取得失敗: %w", key.Key, err)}
				return
			}
			results <- indexedResult{index: index, result: ListingResult{Key: key, Rows: rows}}
		}(i, key)
	}

	// 別のgoroutineでwaitしてチャンネルを閉じる
	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]ListingResult, len(keys))
	var firstErr error
	firstErrIndex := len(keys)
	for r := range results {
		if r.err != nil {
			if r.index < firstErrIndex {
				firstErr, firstErrIndex = r.err, r.index
			}
			continue
		}
		ordered[r.index] = r.result
	}

	if firstErr != nil {
		return nil, firstErr
	}

	log.Printf("✅ 出品の並行取得完了: %d件 (%v)", len(keys), time.Since(start))
	return ordered, nil
}
