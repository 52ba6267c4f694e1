package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Shoppy-App/internal/domain/model"
)

// listingRepo は FetchByProductStore のみ実装し、同時実行数を記録する
type listingRepo struct {
	fakeCatalogRepository
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	failFor     int64
}

func (r *listingRepo) FetchByProductStore(ctx context.Context, productID int64, storeID *int64) ([]model.ProductRow, error) {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		m := r.maxInFlight.Load()
		if n <= m || r.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if productID == r.failFor {
		return nil, errors.New("timeout")
	}
	return []model.ProductRow{row(productID, storeID, nil)}, nil
}

func TestFetchListings_PreservesOrderAndLimitsConcurrency(t *testing.T) {
	repo := &listingRepo{}
	fetcher := NewParallelListingFetcher(repo)

	keys := make([]ListingKey, 20)
	for i := range keys {
		keys[i] = ListingKey{Key: fmt.Sprintf("%d_1", i+1), ProductID: int64(i + 1), StoreID: 1}
	}

	results, err := fetcher.FetchListings(context.Background(), keys)

	require.NoError(t, err)
	require.Len(t, results, len(keys))
	for i, r := range results {
		assert.Equal(t, keys[i], r.Key)
		require.Len(t, r.Rows, 1)
		assert.Equal(t, int64(i+1), r.Rows[0].ProductID)
	}
	assert.LessOrEqual(t, repo.maxInFlight.Load(), int32(defaultMaxGoroutines))
}

func TestFetchListings_Error(t *testing.T) {
	repo := &listingRepo{failFor: 3}
	fetcher := NewParallelListingFetcher(repo)

	_, err := fetcher.FetchListings(context.Background(), []ListingKey{
		{Key: "1_1", ProductID: 1, StoreID: 1},
		{Key: "3_1", ProductID: 3, StoreID: 1},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "3_1")
}

func TestFetchListings_Empty(t *testing.T) {
	results, err := NewParallelListingFetcher(&listingRepo{}).FetchListings(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, results)
}
