package usecase

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"Shoppy-App/internal/domain/model"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func listingRow(productID, storeID int64, imageID *int64, minPrice, maxPrice float64) model.ProductRow {
	return model.ProductRow{
		ProductID:       productID,
		ProductName:     str(fmt.Sprintf("product-%d", productID)),
		LocationName:    str("Hà Nội"),
		StoreID:         i64(storeID),
		StoreName:       str(fmt.Sprintf("store-%d", storeID)),
		StoreLat:        f64(21.0368),
		StoreLong:       f64(105.8342),
		PSID:            i64(productID*100 + storeID),
		PSAverageRating: f64(4.5),
		PSTotalReviews:  i64(12),
		PSMinPriceStore: f64(minPrice),
		PSMaxPriceStore: f64(maxPrice),
		PSImageID:       imageID,
	}
}

type fakeCatalogRepository struct {
	bySearch     map[string][]model.ProductRow
	byListing    map[string][]model.ProductRow
	locByName    map[string]*model.Location
	locByPoint   *model.Location
	products     map[int64][]model.SuggestedProduct
	stores       []model.StoreSummary
	err          error
	lastLimit    int
	nameLookups  []string
	pointLookups int
}

func listingKey(productID int64, storeID *int64) string {
	if storeID == nil {
		return fmt.Sprintf("%d", productID)
	}
	return fmt.Sprintf("%d_%d", productID, *storeID)
}

func (f *fakeCatalogRepository) FetchAll(ctx context.Context) ([]model.ProductRow, error) {
	return nil, f.err
}

func (f *fakeCatalogRepository) FetchBySearch(ctx context.Context, searchText string) ([]model.ProductRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bySearch[searchText], nil
}

func (f *fakeCatalogRepository) FetchByProductStore(ctx context.Context, productID int64, storeID *int64) ([]model.ProductRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byListing[listingKey(productID, storeID)], nil
}

func (f *fakeCatalogRepository) ProductNames(ctx context.Context) ([]string, error) {
	return nil, f.err
}

func (f *fakeCatalogRepository) FindLocationByName(ctx context.Context, name string) (*model.Location, error) {
	f.nameLookups = append(f.nameLookups, name)
	if loc, ok := f.locByName[name]; ok {
		return loc, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeCatalogRepository) FindLocationByPoint(ctx context.Context, point orb.Point) (*model.Location, error) {
	f.pointLookups++
	if f.locByPoint != nil && f.locByPoint.Contains(point) {
		return f.locByPoint, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeCatalogRepository) ProductsByLocation(ctx context.Context, locationID int64, limit int) ([]model.SuggestedProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastLimit = limit
	return f.products[locationID], nil
}

func (f *fakeCatalogRepository) StoresWithTags(ctx context.Context) ([]model.StoreSummary, error) {
	return f.stores, f.err
}

type fakeNormalizer struct{ calls int }

func (f *fakeNormalizer) FixQuery(ctx context.Context, query string) string {
	f.calls++
	return query
}

type fakeStandardizer struct {
	answers map[string]string
}

func (f *fakeStandardizer) StandardizeLocation(ctx context.Context, input string) (string, bool) {
	v, ok := f.answers[input]
	return v, ok
}

type fakeRecognizer struct {
	product       string
	gotVocabulary []string
}

func (f *fakeRecognizer) RecognizeProduct(ctx context.Context, image string, vocabulary []string) (string, bool) {
	f.gotVocabulary = vocabulary
	return f.product, f.product != ""
}
