package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/furniture_shop/internal/logging"
	"github.com/oakline/furniture_shop/internal/models"
	"github.com/oakline/furniture_shop/internal/repo"
	"github.com/oakline/furniture_shop/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

// GetCart joins cart items with current product data. Items whose product no
// longer exists are pruned from the persisted cart instead of being returned.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]transport.CartLine, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []transport.CartLine{}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]transport.CartLine, 0, len(items))
	var stale []uuid.UUID
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			stale = append(stale, it.ProductID)
			continue
		}
		lines = append(lines, transport.CartLine{
			ProductID:     p.ID,
			Quantity:      it.Quantity,
			NameEn:        p.NameEn,
			NameAr:        p.NameAr,
			Price:         p.Price,
			Stock:         p.Stock,
			Slug:          p.Slug,
			Images:        p.Images,
			AverageRating: p.AverageRating,
		})
	}

	if len(stale) > 0 {
		if err := s.Repo.DeleteCartItems(ctx, userID, stale); err != nil {
			logging.FromContext(ctx).Error("cart_prune_failed", "user_id", userID, "error", err)
		}
	}

	return lines, nil
}

// AddItem adds quantity to the user's cart line for the product. A new line
// is rejected outright when quantity exceeds stock; an existing line is
// summed and silently capped at stock instead. A sold-out product is always
// rejected: capping would write a zero-quantity line, which the cart never
// holds.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity uint) ([]transport.CartLine, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}

	existing, err := s.Repo.GetCartItem(ctx, userID, productID)
	switch {
	case err == nil:
		if product.Stock == 0 {
			return nil, &InsufficientStockError{ProductID: productID, Requested: quantity, Available: 0}
		}
		newQty := existing.Quantity + quantity
		if newQty > product.Stock {
			newQty = product.Stock
		}
		if err := s.Repo.SetCartItemQuantity(ctx, userID, productID, newQty); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if quantity > product.Stock {
			return nil, &InsufficientStockError{ProductID: productID, Requested: quantity, Available: product.Stock}
		}
		item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := s.Repo.CreateCartItem(ctx, &item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// UpdateItemQuantity sets the line to exactly quantity. Zero removes the
// line. Unlike AddItem there is no additive or capping behavior.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity uint) ([]transport.CartLine, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	if quantity == 0 {
		removed, err := s.Repo.DeleteCartItem(ctx, userID, productID)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, fmt.Errorf("%w: cart item for product %s", ErrNotFound, productID)
		}
		return s.GetCart(ctx, userID)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if quantity > product.Stock {
		return nil, &InsufficientStockError{ProductID: productID, Requested: quantity, Available: product.Stock}
	}

	if _, err := s.Repo.GetCartItem(ctx, userID, productID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := s.Repo.CreateCartItem(ctx, &item); err != nil {
			return nil, err
		}
	} else if err := s.Repo.SetCartItemQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) ([]transport.CartLine, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	removed, err := s.Repo.DeleteCartItem(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, fmt.Errorf("%w: cart item for product %s", ErrNotFound, productID)
	}

	return s.GetCart(ctx, userID)
}

// Clear empties the cart unconditionally. Clearing an empty cart is fine.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.Repo.ClearCart(ctx, userID)
}
