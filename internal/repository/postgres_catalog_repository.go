package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/paulmach/orb"

	"Shoppy-App/internal/domain/helper"
	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/domain/repository"
	"Shoppy-App/internal/infrastructure/database"
)

// productRowSelect 商品 ⋈ 地域 ⋈ 出品 ⋈ 店舗 ⋈ 画像 の共通SELECT句
const productRowSelect = `
	SELECT
		p.product_id,
		p.name AS product_name,
		p.des AS product_des,
		p.image_url AS product_image_url,
		p.location_id AS product_location_id,
		p.tag AS product_tag,
		p.min_cost AS product_min_cost,
		p.max_cost AS product_max_cost,

		l.location_id,
		l.name AS location_name,
		l.max_long AS location_max_long,
		l.min_long AS location_min_long,
		l.max_lat AS location_max_lat,
		l.min_lat AS location_min_lat,

		s.store_id,
		s.name AS store_name,
		s.address AS store_address,
		s.lat AS store_lat,
		s.long AS store_long,
		s.location_id AS store_location_id,

		ps.ps_id,
		ps.store_id AS ps_store_id,
		ps.product_id AS ps_product_id,
		ps.average_rating AS ps_average_rating,
		ps.total_reviews AS ps_total_reviews,
		ps.min_price_store AS ps_min_price_store,
		ps.max_price_store AS ps_max_price_store,

		pi.image_id AS ps_image_id,
		pi.image_url AS ps_image_url,
		pi.type AS ps_type
	FROM product p
	LEFT JOIN location l ON p.location_id = l.location_id
	LEFT JOIN product_store ps ON ps.product_id = p.product_id
	LEFT JOIN store s ON s.store_id = ps.store_id
	LEFT JOIN product_images pi ON pi.ps_id = ps.ps_id
`

const productRowOrder = ` ORDER BY p.product_id, s.store_id, pi.image_id`

const locationSelect = `
	SELECT
		location_id,
		name,
		COALESCE(max_long, 0),
		COALESCE(min_long, 0),
		COALESCE(max_lat, 0),
		COALESCE(min_lat, 0)
	FROM location
`

type PostgresCatalogRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresCatalogRepository(client *database.PostgreSQLClient) repository.CatalogRepository {
	return &PostgresCatalogRepository{
		client: client,
	}
}

func (r *PostgresCatalogRepository) FetchAll(ctx context.Context) ([]model.ProductRow, error) {
	return r.queryProductRows(ctx, productRowSelect+productRowOrder)
}

func (r *PostgresCatalogRepository) FetchBySearch(ctx context.Context, searchText string) ([]model.ProductRow, error) {
	terms := helper.SearchPatterns(searchText)

	// 各検索語のいずれかに部分一致（アクセント・大文字小文字を無視）
	query := productRowSelect + `
	WHERE unaccent(lower(p.name)) LIKE ANY (
		SELECT '%' || unaccent(lower(t)) || '%' FROM unnest($1::text[]) AS t
	)` + productRowOrder

	return r.queryProductRows(ctx, query, pq.Array(terms))
}

func (r *PostgresCatalogRepository) FetchByProductStore(ctx context.Context, productID int64, storeID *int64) ([]model.ProductRow, error) {
	query := productRowSelect + `
	WHERE p.product_id = $1
	  AND ($2::bigint IS NULL OR s.store_id = $2)` + productRowOrder

	var store sql.NullInt64
	if storeID != nil {
		store = sql.NullInt64{Int64: *storeID, Valid: true}
	}
	return r.queryProductRows(ctx, query, productID, store)
}

func (r *PostgresCatalogRepository) queryProductRows(ctx context.Context, query string, args ...any) ([]model.ProductRow, error) {
	rows, err := r.client.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("商品データの取得失敗: %w", err)
	}
	defer rows.Close()

	result := make([]model.ProductRow, 0)
	for rows.Next() {
		var pr model.ProductRow
		err := rows.Scan(
			&pr.ProductID, &pr.ProductName, &pr.ProductDes, &pr.ProductImageURL,
			&pr.ProductLocationID, &pr.ProductTag, &pr.ProductMinCost, &pr.ProductMaxCost,
			&pr.LocationID, &pr.LocationName, &pr.LocationMaxLong, &pr.LocationMinLong,
			&pr.LocationMaxLat, &pr.LocationMinLat,
			&pr.StoreID, &pr.StoreName, &pr.StoreAddress, &pr.StoreLat, &pr.StoreLong, &pr.StoreLocationID,
			&pr.PSID, &pr.PSStoreID, &pr.PSProductID, &pr.PSAverageRating, &pr.PSTotalReviews,
			&pr.PSMinPriceStore, &pr.PSMaxPriceStore,
			&pr.PSImageID, &pr.PSImageURL, &pr.PSType,
		)
		if err != nil {
			return nil, fmt.Errorf("商品データスキャンエラー: %w", err)
		}
		result = append(result, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("商品データの読み込み失敗: %w", err)
	}

	return result, nil
}

func (r *PostgresCatalogRepository) ProductNames(ctx context.Context) ([]string, error) {
	rows, err := r.client.DB.QueryContext(ctx, `SELECT name FROM product WHERE name IS NOT NULL ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("商品名一覧の取得失敗: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("商品名スキャンエラー: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *PostgresCatalogRepository) FindLocationByName(ctx context.Context, name string) (*model.Location, error) {
	query := locationSelect + `
	WHERE unaccent(lower(name)) LIKE '%' || unaccent(lower($1)) || '%'
	ORDER BY location_id
	LIMIT 1`

	return r.queryLocation(ctx, query, helper.SanitizeTerm(name))
}

func (r *PostgresCatalogRepository) FindLocationByPoint(ctx context.Context, point orb.Point) (*model.Location, error) {
	query := locationSelect + `
	WHERE $1 BETWEEN min_lat AND max_lat
	  AND $2 BETWEEN min_long AND max_long
	ORDER BY location_id
	LIMIT 1`

	return r.queryLocation(ctx, query, point.Lat(), point.Lon())
}

func (r *PostgresCatalogRepository) queryLocation(ctx context.Context, query string, args ...any) (*model.Location, error) {
	var loc model.Location
	err := r.client.DB.QueryRowContext(ctx, query, args...).Scan(
		&loc.LocationID, &loc.Name, &loc.MaxLong, &loc.MinLong, &loc.MaxLat, &loc.MinLat,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("地域データの取得失敗: %w", err)
	}
	return &loc, nil
}

func (r *PostgresCatalogRepository) ProductsByLocation(ctx context.Context, locationID int64, limit int) ([]model.SuggestedProduct, error) {
	query := `
	SELECT DISTINCT
		p.product_id,
		p.name AS product_name,
		p.image_url AS product_image_url,
		p.tag AS product_tag,
		p.min_cost AS product_min_cost,
		p.max_cost AS product_max_cost
	FROM product p
	WHERE p.location_id = $1
	ORDER BY p.product_id
	LIMIT $2`

	rows, err := r.client.DB.QueryContext(ctx, query, locationID, limit)
	if err != nil {
		return nil, fmt.Errorf("地域 %d の商品取得失敗: %w", locationID, err)
	}
	defer rows.Close()

	products := make([]model.SuggestedProduct, 0)
	for rows.Next() {
		var sp model.SuggestedProduct
		err := rows.Scan(&sp.ProductID, &sp.ProductName, &sp.ProductImageURL, &sp.ProductTag,
			&sp.ProductMinCost, &sp.ProductMaxCost)
		if err != nil {
			return nil, fmt.Errorf("商品データスキャンエラー: %w", err)
		}
		products = append(products, sp)
	}
	return products, rows.Err()
}

func (r *PostgresCatalogRepository) StoresWithTags(ctx context.Context) ([]model.StoreSummary, error) {
	query := `
	SELECT
		s.store_id,
		s.name,
		s.address,
		s.lat,
		s.long,
		array_remove(array_agg(p.tag ORDER BY p.product_id), NULL)
	FROM store s
	LEFT JOIN product_store ps ON ps.store_id = s.store_id
	LEFT JOIN product p ON p.product_id = ps.product_id
	GROUP BY s.store_id
	ORDER BY s.store_id`

	rows, err := r.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("店舗一覧の取得失敗: %w", err)
	}
	defer rows.Close()

	stores := make([]model.StoreSummary, 0)
	for rows.Next() {
		var st model.StoreSummary
		var tags []string
		if err := rows.Scan(&st.StoreID, &st.Name, &st.Address, &st.Lat, &st.Long, pq.Array(&tags)); err != nil {
			return nil, fmt.Errorf("店舗データスキャンエラー: %w", err)
		}
		st.Tags = helper.NormalizeTags(tags)
		stores = append(stores, st)
	}
	return stores, rows.Err()
}
