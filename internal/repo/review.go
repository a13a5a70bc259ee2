package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/oakline/furniture_shop/internal/models"
)

func (r *GormRepo) GetReviewByProductUser(ctx context.Context, productID, userID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormRepo) ListReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}

func (r *GormRepo) SaveReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Save(review).Error
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error
}

// AggregateRatings returns the review count and raw mean rating for a product.
func (r *GormRepo) AggregateRatings(ctx context.Context, productID uuid.UUID) (int64, float64, error) {
	var agg struct {
		Count   int64
		Average float64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("product_id = ?", productID).
		Scan(&agg).Error; err != nil {
		return 0, 0, err
	}
	return agg.Count, agg.Average, nil
}
