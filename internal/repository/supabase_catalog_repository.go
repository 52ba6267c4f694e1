package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"Shoppy-App/internal/domain/helper"
	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/domain/repository"
	"Shoppy-App/internal/infrastructure/database"
)

type SupabaseCatalogRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseCatalogRepository(client *database.SupabaseClient) repository.CatalogRepository {
	return &SupabaseCatalogRepository{
		client: client,
	}
}

// rpcError PostgREST がRPC失敗時に返すエラーオブジェクト
type rpcError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Hint    string `json:"hint"`
	Details string `json:"details"`
}

// callRPC はRPCを呼び出し、結果のJSON配列を out にデコードする
// supabase-go の Rpc はレスポンス本文を文字列で返すため、エラー本文はここで判定する
func (r *SupabaseCatalogRepository) callRPC(name string, params map[string]any, out any) error {
	body := r.client.GetClient().Rpc(name, "", params)
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return fmt.Errorf("RPC %s の応答が空です", name)
	}

	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), out); err != nil {
			return fmt.Errorf("RPC %s のJSONアンマーシャル失敗: %w", name, err)
		}
		return nil
	}

	var rpcErr rpcError
	if err := json.Unmarshal([]byte(trimmed), &rpcErr); err == nil && rpcErr.Message != "" {
		return fmt.Errorf("RPC %s 失敗 (code=%s): %s", name, rpcErr.Code, rpcErr.Message)
	}
	return fmt.Errorf("RPC %s の応答を解釈できません: %s", name, truncate(trimmed, 200))
}

func (r *SupabaseCatalogRepository) FetchAll(ctx context.Context) ([]model.ProductRow, error) {
	rows := make([]model.ProductRow, 0)
	if err := r.callRPC("all_product_rows", map[string]any{}, &rows); err != nil {
		return nil, fmt.Errorf("全商品データの取得失敗: %w", err)
	}
	return rows, nil
}

func (r *SupabaseCatalogRepository) FetchBySearch(ctx context.Context, searchText string) ([]model.ProductRow, error) {
	terms := helper.SearchPatterns(searchText)

	rows := make([]model.ProductRow, 0)
	if err := r.callRPC("search_product_rows", map[string]any{"search_terms": terms}, &rows); err != nil {
		return nil, fmt.Errorf("商品検索失敗: %w", err)
	}
	return rows, nil
}

func (r *SupabaseCatalogRepository) FetchByProductStore(ctx context.Context, productID int64, storeID *int64) ([]model.ProductRow, error) {
	params := map[string]any{
		"p_product_id": productID,
		"p_store_id":   nil,
	}
	if storeID != nil {
		params["p_store_id"] = *storeID
	}

	rows := make([]model.ProductRow, 0)
	if err := r.callRPC("product_rows_by_listing", params, &rows); err != nil {
		return nil, fmt.Errorf("商品ID %d のデータ取得失敗: %w", productID, err)
	}
	return rows, nil
}

func (r *SupabaseCatalogRepository) ProductNames(ctx context.Context) ([]string, error) {
	data, _, err := r.client.GetClient().From("product").Select("product_id,name", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("商品名一覧の取得失敗: %w", err)
	}

	var records []productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("商品データのJSONアンマーシャル失敗: %w", err)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ProductID < records[j].ProductID })

	names := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Name != nil {
			names = append(names, *rec.Name)
		}
	}
	return names, nil
}

func (r *SupabaseCatalogRepository) FindLocationByName(ctx context.Context, name string) (*model.Location, error) {
	var locations []model.Location
	params := map[string]any{"p_name": strings.ToLower(helper.SanitizeTerm(name))}
	if err := r.callRPC("find_location_by_name", params, &locations); err != nil {
		return nil, fmt.Errorf("地域名検索失敗: %w", err)
	}
	if len(locations) == 0 {
		return nil, model.ErrNotFound
	}
	return &locations[0], nil
}

func (r *SupabaseCatalogRepository) FindLocationByPoint(ctx context.Context, point orb.Point) (*model.Location, error) {
	data, _, err := r.client.GetClient().From("location").
		Select("location_id,name,max_long,min_long,max_lat,min_lat", "exact", false).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("地域一覧の取得失敗: %w", err)
	}

	var records []locationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("地域データのJSONアンマーシャル失敗: %w", err)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].LocationID < records[j].LocationID })

	// 境界ボックス判定は orb で行う
	for _, rec := range records {
		loc, ok := rec.toLocation()
		if !ok {
			continue
		}
		if loc.Contains(point) {
			return loc, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *SupabaseCatalogRepository) ProductsByLocation(ctx context.Context, locationID int64, limit int) ([]model.SuggestedProduct, error) {
	data, _, err := r.client.GetClient().From("product").
		Select("product_id,name,image_url,tag,min_cost,max_cost", "exact", false).
		Eq("location_id", strconv.FormatInt(locationID, 10)).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("地域 %d の商品取得失敗: %w", locationID, err)
	}

	var records []productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("商品データのJSONアンマーシャル失敗: %w", err)
	}

	products := make([]model.SuggestedProduct, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.ProductID]; dup {
			continue
		}
		seen[rec.ProductID] = struct{}{}
		products = append(products, rec.toSuggested())
	}
	return products, nil
}

func (r *SupabaseCatalogRepository) StoresWithTags(ctx context.Context) ([]model.StoreSummary, error) {
	data, _, err := r.client.GetClient().From("store").
		Select("store_id,name,address,lat,long,product_store(product(tag))", "exact", false).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("店舗一覧の取得失敗: %w", err)
	}

	var records []storeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("❌ 店舗データのJSONアンマーシャル失敗: %v", err)
		return nil, fmt.Errorf("店舗データのJSONアンマーシャル失敗: %w", err)
	}

	stores := make([]model.StoreSummary, 0, len(records))
	for _, rec := range records {
		stores = append(stores, rec.toSummary())
	}
	return stores, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
