package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/furniture_shop/internal/cache"
	"github.com/oakline/furniture_shop/internal/logging"
	"github.com/oakline/furniture_shop/internal/models"
	"github.com/oakline/furniture_shop/internal/repo"
)

const maxCommentLen = 1000

type ReviewService struct {
	Repo  *repo.GormRepo
	Cache *cache.Cache
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	return s.Repo.ListReviewsByProduct(ctx, productID)
}

// Create rejects a second review from the same customer for the same product.
func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, username string, productID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if err := validateReviewInput(rating, comment); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, err
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Username:  username,
		Rating:    rating,
		Comment:   comment,
	}
	// The (product, user) unique index is the arbiter: concurrent creates
	// race the insert, not a lookup, and the loser still gets Conflict.
	if err := s.Repo.CreateReview(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: product %s already reviewed", ErrConflict, productID)
		}
		return nil, err
	}

	s.recompute(ctx, productID)

	return review, nil
}

// Update edits the review identified by (product, targetUser). Acting on
// another customer's review requires an elevated role.
func (s *ReviewService) Update(ctx context.Context, productID, targetUserID, requesterID uuid.UUID, role string, rating int, comment string) (*models.Review, error) {
	if err := validateReviewInput(rating, comment); err != nil {
		return nil, err
	}

	if targetUserID != requesterID && !ElevatedRole(role) {
		return nil, fmt.Errorf("%w: cannot edit another customer's review", ErrForbidden)
	}

	review, err := s.Repo.GetReviewByProductUser(ctx, productID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: review for product %s", ErrNotFound, productID)
		}
		return nil, err
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.Repo.SaveReview(ctx, review); err != nil {
		return nil, err
	}

	s.recompute(ctx, review.ProductID)

	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, productID, targetUserID, requesterID uuid.UUID, role string) error {
	if targetUserID != requesterID && !ElevatedRole(role) {
		return fmt.Errorf("%w: cannot delete another customer's review", ErrForbidden)
	}

	review, err := s.Repo.GetReviewByProductUser(ctx, productID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: review for product %s", ErrNotFound, productID)
		}
		return err
	}

	if err := s.Repo.DeleteReview(ctx, review.ID); err != nil {
		return err
	}

	s.recompute(ctx, review.ProductID)

	return nil
}

// recompute refreshes the product's derived rating fields from the current
// review set. It never fails the triggering operation: errors are logged and
// the stale aggregate is left for the next write to repair.
func (s *ReviewService) recompute(ctx context.Context, productID uuid.UUID) {
	l := logging.FromContext(ctx)

	count, avg, err := s.Repo.AggregateRatings(ctx, productID)
	if err != nil {
		l.Error("rating_recompute_failed", "product_id", productID, "error", err)
		return
	}

	average := 0.0
	if count > 0 {
		average = math.Round(avg*10) / 10
	}

	if err := s.Repo.UpdateProductRating(ctx, productID, average, count); err != nil {
		l.Error("rating_recompute_failed", "product_id", productID, "error", err)
		return
	}

	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, "product:"+productID.String()); err != nil {
			l.Error("cache_invalidate_failed", "product_id", productID, "error", err)
		}
	}
}

func validateReviewInput(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if len(comment) > maxCommentLen {
		return fmt.Errorf("%w: comment exceeds %d characters", ErrValidation, maxCommentLen)
	}
	return nil
}
