package application

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"Shoppy-App/internal/domain/model"
	"Shoppy-App/internal/domain/repository"
)

const maxCommentLength = 1000

// ReviewsService 出品（product_store）とレビューに関するビジネスロジックを提供するサービス
type ReviewsService interface {
	// LookupListing 商品IDと店舗IDから出品ID (ps_id) を取得
	LookupListing(ctx context.Context, productID, storeID int64) (int64, error)

	// GetListingDetail 出品の詳細をレビュー集計付きで取得
	GetListingDetail(ctx context.Context, psID int64) (*model.ListingDetail, error)

	// ListReviews 出品のレビュー一覧を新しい順で取得
	ListReviews(ctx context.Context, psID int64) (*model.ReviewSummary, error)

	// CreateReview レビューを投稿
	CreateReview(ctx context.Context, req *model.CreateReviewRequest) error
}

// reviewsServiceImpl ReviewsServiceの実装
type reviewsServiceImpl struct {
	reviewsRepo repository.ReviewsRepository
}

// NewReviewsService ReviewsServiceの新しいインスタンスを作成
func NewReviewsService(reviewsRepo repository.ReviewsRepository) ReviewsService {
	return &reviewsServiceImpl{
		reviewsRepo: reviewsRepo,
	}
}

func (s *reviewsServiceImpl) LookupListing(ctx context.Context, productID, storeID int64) (int64, error) {
	if productID <= 0 || storeID <= 0 {
		return 0, fmt.Errorf("product_idとstore_idは必須です: %w", model.ErrInvalidInput)
	}

	psID, err := s.reviewsRepo.LookupListingID(ctx, productID, storeID)
	if err != nil {
		return 0, fmt.Errorf("出品IDの取得失敗: %w", err)
	}
	return psID, nil
}

func (s *reviewsServiceImpl) GetListingDetail(ctx context.Context, psID int64) (*model.ListingDetail, error) {
	if psID <= 0 {
		return nil, fmt.Errorf("無効なps_id: %d: %w", psID, model.ErrInvalidInput)
	}

	detail, err := s.reviewsRepo.GetListingDetail(ctx, psID)
	if err != nil {
		return nil, fmt.Errorf("出品詳細の取得失敗: %w", err)
	}
	return detail, nil
}

func (s *reviewsServiceImpl) ListReviews(ctx context.Context, psID int64) (*model.ReviewSummary, error) {
	if psID <= 0 {
		return nil, fmt.Errorf("無効なps_id: %d: %w", psID, model.ErrInvalidInput)
	}

	summary, err := s.reviewsRepo.ListReviews(ctx, psID)
	if err != nil {
		return nil, fmt.Errorf("レビュー一覧の取得失敗: %w", err)
	}
	return summary, nil
}

func (s *reviewsServiceImpl) CreateReview(ctx context.Context, req *model.CreateReviewRequest) error {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Comment = strings.TrimSpace(req.Comment)

	if err := s.validateCreateReviewRequest(req); err != nil {
		return fmt.Errorf("リクエストの検証失敗: %w", err)
	}

	if err := s.reviewsRepo.CreateReview(ctx, req); err != nil {
		return fmt.Errorf("レビューの保存失敗: %w", err)
	}

	log.Printf("✅ レビューを保存: ps_id=%d rating=%d", req.PSID, req.Rating)
	return nil
}

// validateCreateReviewRequest リクエストのバリデーション
func (s *reviewsServiceImpl) validateCreateReviewRequest(req *model.CreateReviewRequest) error {
	if req.PSID <= 0 {
		return fmt.Errorf("ps_idは必須です: %w", model.ErrInvalidInput)
	}
	if req.UserID == "" {
		return fmt.Errorf("user_idは必須です: %w", model.ErrInvalidInput)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return fmt.Errorf("評価は1から5の範囲内である必要があります: %w", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Comment) > maxCommentLength {
		return fmt.Errorf("コメントは%d文字以内である必要があります: %w", maxCommentLength, model.ErrInvalidInput)
	}
	return nil
}
