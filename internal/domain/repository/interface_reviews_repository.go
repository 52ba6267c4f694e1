package repository

import (
	"context"

	"Shoppy-App/internal/domain/model"
)

type ReviewsRepository interface {
	LookupListingID(ctx context.Context, productID, storeID int64) (int64, error)
	GetListingDetail(ctx context.Context, psID int64) (*model.ListingDetail, error)
	ListReviews(ctx context.Context, psID int64) (*model.ReviewSummary, error)
	CreateReview(ctx context.Context, req *model.CreateReviewRequest) error
}
