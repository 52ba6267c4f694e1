package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/domain/repository"
	"Shoppy-App/internal/infrastructure/database"
)

type SQLiteReviewsRepository struct {
	client *database.SQLiteClient
}

func NewSQLiteReviewsRepository(client *database.SQLiteClient) repository.ReviewsRepository {
	return &SQLiteReviewsRepository{
		client: client,
	}
}

func (r *SQLiteReviewsRepository) LookupListingID(ctx context.Context, productID, storeID int64) (int64, error) {
	var psID int64
	err := r.client.DB.QueryRowContext(ctx,
		`SELECT ps_id FROM product_store WHERE product_id = ? AND store_id = ?`,
		productID, storeID,
	).Scan(&psID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, model.ErrNotFound
		}
		return 0, fmt.Errorf("ps_idの検索失敗: %w", err)
	}
	return psID, nil
}

func (r *SQLiteReviewsRepository) GetListingDetail(ctx context.Context, psID int64) (*model.ListingDetail, error) {
	query := `
		SELECT
			ps.ps_id,
			p.product_id,
			s.store_id,
			COALESCE(ps.cost, 0),
			p.name,
			COALESCE(p.des, ''),
			s.name,
			COALESCE(s.address, ''),
			COALESCE(
				NULLIF((SELECT image_url FROM product_images WHERE ps_id = ps.ps_id ORDER BY image_id LIMIT 1), ''),
				NULLIF(p.image_url, ''),
				''
			),
			COALESCE(AVG(rv.rating), 0),
			COUNT(rv.review_id)
		FROM product_store ps
		JOIN product p ON ps.product_id = p.product_id
		JOIN store s ON ps.store_id = s.store_id
		LEFT JOIN reviews rv ON rv.ps_id = ps.ps_id
		WHERE ps.ps_id = ?
		GROUP BY ps.ps_id`

	var d model.ListingDetail
	var avg float64
	err := r.client.DB.QueryRowContext(ctx, query, psID).Scan(
		&d.ID, &d.ProductID, &d.StoreID, &d.Price,
		&d.SubName, &d.Description, &d.Name, &d.Address, &d.Img,
		&avg, &d.ReviewCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("出品詳細の取得失敗: %w", err)
	}
	d.Rating = roundRating(avg)

	return &d, nil
}

func (r *SQLiteReviewsRepository) ListReviews(ctx context.Context, psID int64) (*model.ReviewSummary, error) {
	rows, err := r.client.DB.QueryContext(ctx,
		`SELECT review_id, ps_id, user_id, rating, comment, created_at
		 FROM reviews WHERE ps_id = ? ORDER BY created_at DESC, review_id DESC`,
		psID,
	)
	if err != nil {
		return nil, fmt.Errorf("レビュー一覧の取得失敗: %w", err)
	}
	defer rows.Close()

	summary := &model.ReviewSummary{Reviews: make([]model.Review, 0)}
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ReviewID, &rv.PSID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("レビューデータスキャンエラー: %w", err)
		}
		summary.Reviews = append(summary.Reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("レビュー一覧の読み込み失敗: %w", err)
	}

	var avg sql.NullFloat64
	err = r.client.DB.QueryRowContext(ctx,
		`SELECT AVG(rating), COUNT(review_id) FROM reviews WHERE ps_id = ?`, psID,
	).Scan(&avg, &summary.TotalReviews)
	if err != nil {
		return nil, fmt.Errorf("レビュー集計の取得失敗: %w", err)
	}
	if avg.Valid {
		summary.AverageRating = roundRating(avg.Float64)
	}

	return summary, nil
}

func (r *SQLiteReviewsRepository) CreateReview(ctx context.Context, req *model.CreateReviewRequest) error {
	var exists int
	err := r.client.DB.QueryRowContext(ctx, `SELECT 1 FROM product_store WHERE ps_id = ?`, req.PSID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("出品の確認失敗: %w", err)
	}

	_, err = r.client.DB.ExecContext(ctx,
		`INSERT INTO reviews (ps_id, user_id, rating, comment) VALUES (?, ?, ?, ?)`,
		req.PSID, req.UserID, req.Rating, req.Comment,
	)
	if err != nil {
		return fmt.Errorf("レビューの登録失敗: %w", err)
	}
	return nil
}

// roundRating 評価の平均を小数第1位に丸める
func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
