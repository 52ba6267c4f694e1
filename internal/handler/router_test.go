package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/usecase"
)

type fakeSearchUseCase struct {
	lastQuery  usecase.SearchQuery
	lastOrigin *orb.Point
	calls      int
	err        error
}

func (f *fakeSearchUseCase) SearchProducts(ctx context.Context, q usecase.SearchQuery) ([]model.ProductView, error) {
	f.calls++
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return []model.ProductView{{ProductID: 1, Stores: []model.StoreView{}}}, nil
}

func (f *fakeSearchUseCase) SearchByImage(ctx context.Context, image string, origin *orb.Point) (*model.ImageSearchResult, error) {
	f.calls++
	f.lastOrigin = origin
	if f.err != nil {
		return nil, f.err
	}
	return &model.ImageSearchResult{Status: "not_found", Products: []model.ProductView{}}, nil
}

type fakeCatalogUseCase struct {
	err error
}

func (f *fakeCatalogUseCase) ProductSummary(ctx context.Context, productID int64) ([]model.ProductView, error) {
	if productID == 404 {
		return []model.ProductView{}, nil
	}
	return []model.ProductView{{ProductID: productID}}, f.err
}

func (f *fakeCatalogUseCase) CartDetails(ctx context.Context, cart map[string]int) (map[string]model.ProductView, error) {
	details := make(map[string]model.ProductView)
	for key, qty := range cart {
		q := qty
		details[key] = model.ProductView{Stores: []model.StoreView{{Qty: &q}}}
	}
	return details, f.err
}

func (f *fakeCatalogUseCase) ListStores(ctx context.Context) ([]model.StoreSummary, error) {
	return []model.StoreSummary{{StoreID: 1, Name: "Quán A", Tags: []string{"phở"}}}, f.err
}

type fakeSuggestUseCase struct {
	lastReq *model.SuggestRequest
}

func (f *fakeSuggestUseCase) Suggest(ctx context.Context, req *model.SuggestRequest) (*model.SuggestResponse, error) {
	f.lastReq = req
	return &model.SuggestResponse{Status: "success", Products: []model.SuggestItem{}}, nil
}

type fakeReviewsService struct {
	created []model.CreateReviewRequest
}

func (f *fakeReviewsService) LookupListing(ctx context.Context, productID, storeID int64) (int64, error) {
	if productID == 1 && storeID == 10 {
		return 100, nil
	}
	return 0, fmt.Errorf("出品IDの取得失敗: %w", model.ErrNotFound)
}

func (f *fakeReviewsService) GetListingDetail(ctx context.Context, psID int64) (*model.ListingDetail, error) {
	if psID != 100 {
		return nil, model.ErrNotFound
	}
	return &model.ListingDetail{ID: 100, Rating: 4.5, ReviewCount: 2}, nil
}

func (f *fakeReviewsService) ListReviews(ctx context.Context, psID int64) (*model.ReviewSummary, error) {
	return nil, errors.New("database is locked")
}

func (f *fakeReviewsService) CreateReview(ctx context.Context, req *model.CreateReviewRequest) error {
	if req.PSID != 100 {
		return fmt.Errorf("レビューの保存失敗: %w", model.ErrNotFound)
	}
	f.created = append(f.created, *req)
	return nil
}

type testServer struct {
	router  *gin.Engine
	search  *fakeSearchUseCase
	suggest *fakeSuggestUseCase
	reviews *fakeReviewsService
}

func newTestServer() *testServer {
	return newTestServerWithChecks(map[string]HealthCheckFunc{
		"catalog": func() error { return nil },
	})
}

func newTestServerWithChecks(checks map[string]HealthCheckFunc) *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		search:  &fakeSearchUseCase{},
		suggest: &fakeSuggestUseCase{},
		reviews: &fakeReviewsService{},
	}
	s.router = NewRouter(Handlers{
		Search:       NewSearchHandler(s.search),
		Catalog:      NewCatalogHandler(&fakeCatalogUseCase{}, s.suggest),
		Reviews:      NewReviewsHandler(s.reviews),
		HealthChecks: checks,
	})
	return s
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestGetProducts(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/api/products?search=ph%E1%BB%9F&distance=5&price=2&lat=21.0285&lng=105.8542", nil)

	require.Equal(t, http.StatusOK, w.Code)
	q := s.search.lastQuery
	assert.Equal(t, "phở", q.Text)
	require.NotNil(t, q.MaxDistanceKm)
	assert.Equal(t, 5.0, *q.MaxDistanceKm)
	require.NotNil(t, q.PriceBucket)
	assert.Equal(t, 50000.0, q.PriceBucket.Low)
	require.NotNil(t, q.Origin)
	assert.Equal(t, 105.8542, q.Origin.Lon())
	assert.Equal(t, 21.0285, q.Origin.Lat())

	var products []model.ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 1)
}

func TestGetProducts_NoFilters(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/api/products?distance=&price=", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, s.search.lastQuery.MaxDistanceKm)
	assert.Nil(t, s.search.lastQuery.PriceBucket)
	assert.Nil(t, s.search.lastQuery.Origin)
}

func TestGetProducts_InvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{name: "距離が数値でない", query: "distance=abc", field: "distance"},
		{name: "距離が負", query: "distance=-1", field: "distance"},
		{name: "未知の価格帯", query: "price=7", field: "price"},
		{name: "緯度のみ", query: "lat=21.0", field: "lat,lng"},
		{name: "緯度が範囲外", query: "lat=91&lng=105", field: "lat"},
		{name: "経度が数値でない", query: "lat=21&lng=east", field: "lng"},
		{name: "緯度がNaN", query: "lat=NaN&lng=105", field: "lat"},
		{name: "経度がNaN", query: "lat=21&lng=nan", field: "lng"},
		{name: "経度が無限大", query: "lat=21&lng=Inf", field: "lng"},
		{name: "距離がNaN", query: "distance=NaN", field: "distance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()

			w := s.do(http.MethodGet, "/api/products?"+tt.query, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.field, body["field"])
			// 不正なパラメータではデータ取得を行わない
			assert.Zero(t, s.search.calls)
		})
	}
}

func TestGetProducts_BackendError(t *testing.T) {
	s := newTestServer()
	s.search.err = errors.New("connection refused")

	w := s.do(http.MethodGet, "/api/products?search=x", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPostSearchByImage(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodPost, "/api/search-by-image", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/search-by-image?lat=21&lng=105", map[string]string{"image": "QUJD"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, s.search.lastOrigin)

	var result model.ImageSearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "not_found", result.Status)
}

func TestGetProductSummary(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/api/product_summary?product_id=3", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/product_summary?product_id=404", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(http.MethodGet, "/api/product_summary?product_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostCartDetails(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodPost, "/api/cart/details", map[string]any{"cart": map[string]int{"1_10": 3}})

	require.Equal(t, http.StatusOK, w.Code)
	var details map[string]model.ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	require.Contains(t, details, "1_10")
	assert.Equal(t, 3, *details["1_10"].Stores[0].Qty)
}

func TestPostSuggestProducts(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodPost, "/api/suggest_products", map[string]any{"location_name": "Sài Gòn", "limit": 4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sài Gòn", s.suggest.lastReq.LocationName)
	assert.Equal(t, 4, s.suggest.lastReq.Limit)

	w = s.do(http.MethodPost, "/api/suggest_products", map[string]any{"latitude": 10.8})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStores(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/map/api/stores", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"store_id":1,"name":"Quán A","address":null,"lat":null,"long":null,"tags":["phở"]}]`, w.Body.String())
}

func TestReviewsRoutes(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/api/ps_id_lookup?product_id=1&store_id=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ps_id":100}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/ps_id_lookup?product_id=1&store_id=11", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/ps_id_lookup?product_id=1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/product_detail/100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail model.ListingDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, 4.5, detail.Rating)

	w = s.do(http.MethodGet, "/api/product_detail/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/reviews/100", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateReview(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodPost, "/api/reviews", map[string]any{"ps_id": 100, "user_id": "u1", "rating": 4, "comment": "Ngon"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, s.reviews.created, 1)

	w = s.do(http.MethodPost, "/api/reviews", map[string]any{"ps_id": 100, "user_id": "u1", "rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/reviews", map[string]any{"ps_id": 5, "user_id": "u1", "rating": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	generated := w.Header().Get(requestIDHeader)
	assert.Len(t, generated, 36)

	var body struct {
		Status    string            `json:"status"`
		RequestID string            `json:"request_id"`
		Checks    map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, generated, body.RequestID)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, map[string]string{"catalog": "ok"}, body.Checks)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestHealth_BackendDown(t *testing.T) {
	s := newTestServerWithChecks(map[string]HealthCheckFunc{
		"catalog": func() error { return nil },
		"reviews": func() error { return errors.New("database is closed") },
	})

	w := s.do(http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "ok", body.Checks["catalog"])
	assert.Equal(t, "database is closed", body.Checks["reviews"])
}
