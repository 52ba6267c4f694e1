package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Shoppy-App/internal/domain/model"
)

func TestProductSummary(t *testing.T) {
	repo := &fakeCatalogRepository{byListing: map[string][]model.ProductRow{
		"1": {
			listingRow(1, 10, i64(100), 40000, 60000),
			listingRow(1, 10, i64(100), 40000, 60000),
			listingRow(1, 20, nil, 50000, 70000),
		},
	}}
	uc := NewCatalogUseCase(repo)

	summary, err := uc.ProductSummary(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, summary, 1)
	require.Len(t, summary[0].Stores, 2)
	assert.Len(t, summary[0].Stores[0].ProductImages, 1)
	assert.Equal(t, 4.5, *summary[0].Stores[0].PSAverageRating)
	assert.Equal(t, int64(12), *summary[0].Stores[0].PSTotalReviews)

	empty, err := uc.ProductSummary(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, []model.ProductView{}, empty)
}

func TestCartDetails(t *testing.T) {
	repo := &fakeCatalogRepository{byListing: map[string][]model.ProductRow{
		"1_10": {listingRow(1, 10, i64(100), 40000, 60000), listingRow(1, 10, i64(101), 40000, 60000)},
	}}
	uc := NewCatalogUseCase(repo)

	details, err := uc.CartDetails(context.Background(), map[string]int{
		"1_10":   2,
		"1_99":   1, // 存在しない出品
		"5":      1, // 区切りなし
		"1_2_3":  1, // 区切りが多い
		"abc_10": 1,
	})

	require.NoError(t, err)
	require.Len(t, details, 1)
	item := details["1_10"]
	assert.Equal(t, int64(1), item.ProductID)
	require.Len(t, item.Stores, 1)
	require.NotNil(t, item.Stores[0].Qty)
	assert.Equal(t, 2, *item.Stores[0].Qty)
	assert.Len(t, item.Stores[0].ProductImages, 2)
}

func TestCartDetails_RepositoryError(t *testing.T) {
	uc := NewCatalogUseCase(&fakeCatalogRepository{err: errors.New("db down")})

	_, err := uc.CartDetails(context.Background(), map[string]int{"1_10": 1})
	assert.Error(t, err)
}

func TestParseCartKey(t *testing.T) {
	p, s, ok := parseCartKey("12_34")
	assert.True(t, ok)
	assert.Equal(t, int64(12), p)
	assert.Equal(t, int64(34), s)

	for _, key := range []string{"", "12", "12_", "_34", "1_2_3", "x_1"} {
		_, _, ok := parseCartKey(key)
		assert.False(t, ok, key)
	}
}

func TestListStores(t *testing.T) {
	repo := &fakeCatalogRepository{stores: []model.StoreSummary{{StoreID: 1, Name: "Quán A", Tags: []string{"phở"}}}}
	uc := NewCatalogUseCase(repo)

	stores, err := uc.ListStores(context.Background())

	require.NoError(t, err)
	assert.Len(t, stores, 1)
}
