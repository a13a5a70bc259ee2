package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/furniture_shop/internal/models"
)

func TestReviewService_Create_AggregatesRating(t *testing.T) {
	r := newTestRepo(t)
	svc := &ReviewService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.Create(ctx, uuid.New(), "fatima", p.ID, 5, "ممتاز")
	require.NoError(t, err)
	_, err = svc.Create(ctx, uuid.New(), "omar", p.ID, 3, "decent")
	require.NoError(t, err)

	product, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), product.NumReviews)
	assert.Equal(t, 4.0, product.AverageRating)
}

func TestReviewService_Create_RoundsMeanToOneDecimal(t *testing.T) {
	r := newTestRepo(t)
	svc := &ReviewService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, 5, 100)

	// 5, 4, 4 -> 4.333... -> 4.3
	for _, rating := range []int{5, 4, 4} {
		_, err := svc.Create(ctx, uuid.New(), "user", p.ID, rating, "")
		require.NoError(t, err)
	}

	product, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), product.NumReviews)
	assert.Equal(t, 4.3, product.AverageRating)
}

func TestReviewService_Create_DuplicateRejected(t *testing.T) {
	r := newTestRepo(t)
	svc := &ReviewService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.Create(ctx, userID, "fatima", p.ID, 5, "great")
	require.NoError(t, err)

	// The second insert loses against the (product, user) unique index and
	// must surface as Conflict, not an opaque driver error.
	_, err = svc.Create(ctx, userID, "fatima", p.ID, 4, "changed my mind")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var n int64
	require.NoError(t, r.DB.Model(&models.Review{}).Where("product_id = ?", p.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	product, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.NumReviews)
	assert.Equal(t, 5.0, product.AverageRating)
}

func TestReviewService_Create_Validation(t *testing.T) {
	r := newTestRepo(t)
	svc := &ReviewService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.Create(ctx, uuid.New(), "u", p.ID, 0, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, uuid.New(), "u", p.ID, 6, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, uuid.New(), "u", p.ID, 4, strings.Repeat("x", 1001))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, uuid.New(), "u", uuid.New(), 4, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewService_Update_RecomputesAggregate(t *testing.T) {
	r := newTestRepo(t)
	svc := &ReviewService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.Create(ctx, userID, "fatima", p.ID, 2, "meh")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, userID, userID, "user", 5, "grew on me")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "grew on me", updated.Comment)

	product, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, product.AverageRating)
}

func TestReviewService_Update_CrossUserForbidden(t *testing.T) {
	r := newTestRepo(t)
	svc := &ReviewService{Repo: r}
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.Create(ctx, owner, "fatima", p.ID, 4, "")
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, owner, stranger, "user", 1, "sabotage")
	assert.ErrorIs(t, err, ErrForbidden)

	// Moderators can edit anyone's review.
	_, err = svc.Update(ctx, p.ID, owner, stranger, "admin", 3, "moderated")
	require.NoError(t, err)
}

func TestReviewService_Delete_LastReviewResetsAggregate(t *testing.T) {
	r := newTestRepo(t)
	svc := &ReviewService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.Create(ctx, userID, "fatima", p.ID, 4, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID, userID, userID, "user"))

	product, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), product.NumReviews)
	assert.Equal(t, 0.0, product.AverageRating)

	// Nothing left to delete.
	err = svc.Delete(ctx, p.ID, userID, userID, "user")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewService_Delete_CrossUserForbidden(t *testing.T) {
	r := newTestRepo(t)
	svc := &ReviewService{Repo: r}
	ctx := context.Background()
	owner := uuid.New()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.Create(ctx, owner, "fatima", p.ID, 4, "")
	require.NoError(t, err)

	err = svc.Delete(ctx, p.ID, owner, uuid.New(), "user")
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, p.ID, owner, uuid.New(), "editor")
	require.NoError(t, err)
}
