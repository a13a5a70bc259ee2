package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/furniture_shop/internal/models"
)

func TestCartService_AddItem_NewLineWithinStock(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	p := seedProduct(t, r, 5, 199.99)

	lines, err := svc.AddItem(ctx, userID, p.ID, 3)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, p.ID, lines[0].ProductID)
	assert.Equal(t, uint(3), lines[0].Quantity)
	assert.Equal(t, "Oak Dining Table", lines[0].NameEn)
	assert.Equal(t, 199.99, lines[0].Price)
}

func TestCartService_AddItem_NewLineExceedingStockRejected(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.AddItem(ctx, userID, p.ID, 6)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(6), stockErr.Requested)
	assert.Equal(t, uint(5), stockErr.Available)

	// The cart must be left untouched.
	assert.Equal(t, int64(0), cartCount(t, r, userID))
}

func TestCartService_AddItem_ExistingLineCappedAtStock(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.AddItem(ctx, userID, p.ID, 3)
	require.NoError(t, err)

	// 3 + 4 exceeds the 5 in stock; the line caps silently instead of failing.
	lines, err := svc.AddItem(ctx, userID, p.ID, 4)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, uint(5), lines[0].Quantity)
}

func TestCartService_AddItem_ExistingLineSoldOutRejected(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.AddItem(ctx, userID, p.ID, 2)
	require.NoError(t, err)

	// The product sells out after the line was added. The add must be
	// rejected, never capped down to a zero-quantity line.
	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", p.ID).Update("stock", 0).Error)

	_, err = svc.AddItem(ctx, userID, p.ID, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(0), stockErr.Available)

	item, err := r.GetCartItem(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), item.Quantity)
}

func TestCartService_AddItem_InactiveProductHidden(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, 5, 100)
	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", p.ID).Update("is_active", false).Error)

	_, err := svc.AddItem(ctx, uuid.New(), p.ID, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_AddItem_Validation(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	_, err := svc.AddItem(ctx, uuid.New(), uuid.Nil, 1)
	assert.ErrorIs(t, err, ErrValidation)

	p := seedProduct(t, r, 5, 100)
	_, err = svc.AddItem(ctx, uuid.New(), p.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddItem(ctx, uuid.New(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_UpdateItemQuantity_SetExact(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	p := seedProduct(t, r, 10, 100)

	_, err := svc.AddItem(ctx, userID, p.ID, 2)
	require.NoError(t, err)

	// Unlike AddItem this is a set, not an increment.
	lines, err := svc.UpdateItemQuantity(ctx, userID, p.ID, 7)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, uint(7), lines[0].Quantity)
}

func TestCartService_UpdateItemQuantity_ZeroRemovesLine(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	p := seedProduct(t, r, 10, 100)

	_, err := svc.AddItem(ctx, userID, p.ID, 2)
	require.NoError(t, err)

	lines, err := svc.UpdateItemQuantity(ctx, userID, p.ID, 0)
	require.NoError(t, err)
	assert.Len(t, lines, 0)

	// Zero for a line that does not exist is NotFound, not a silent no-op.
	_, err = svc.UpdateItemQuantity(ctx, userID, p.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_UpdateItemQuantity_ExceedingStockRejected(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.AddItem(ctx, userID, p.ID, 2)
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(ctx, userID, p.ID, 6)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	item, err := r.GetCartItem(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), item.Quantity)
}

func TestCartService_RemoveItem(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	p := seedProduct(t, r, 5, 100)

	_, err := svc.AddItem(ctx, userID, p.ID, 1)
	require.NoError(t, err)

	lines, err := svc.RemoveItem(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 0)

	_, err = svc.RemoveItem(ctx, userID, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_Clear_EmptyCartIsFine(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Clear(ctx, userID))

	p := seedProduct(t, r, 5, 100)
	_, err := svc.AddItem(ctx, userID, p.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, userID))
	assert.Equal(t, int64(0), cartCount(t, r, userID))
}

func TestCartService_GetCart_PrunesDeletedProducts(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()
	userID := uuid.New()

	kept := seedProduct(t, r, 5, 100)
	gone := seedProduct(t, r, 5, 100)

	_, err := svc.AddItem(ctx, userID, kept.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, gone.ID, 1)
	require.NoError(t, err)

	require.NoError(t, r.DB.Delete(&models.Product{}, "id = ?", gone.ID).Error)

	lines, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, kept.ID, lines[0].ProductID)

	// The stale row is gone from the persisted cart as well.
	assert.Equal(t, int64(1), cartCount(t, r, userID))
}
