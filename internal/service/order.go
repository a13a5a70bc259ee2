package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/furniture_shop/internal/models"
	"github.com/oakline/furniture_shop/internal/repo"
	"github.com/oakline/furniture_shop/internal/transport"
)

type OrderService struct {
	Repo *repo.GormRepo
}

// CreateOrder snapshots the requested items into an immutable order. The
// per-item stock check is advisory: nothing is reserved or decremented until
// payment confirmation. The cart is deliberately left untouched here.
// Aggregate price fields are taken from the client; unit prices are not.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req transport.CreateOrderRequest) (uuid.UUID, error) {
	if len(req.Items) == 0 {
		return uuid.Nil, fmt.Errorf("%w: order_items required", ErrValidation)
	}
	if req.ShippingAddress.Address == "" || req.ShippingAddress.City == "" ||
		req.ShippingAddress.PostalCode == "" || req.ShippingAddress.Country == "" {
		return uuid.Nil, fmt.Errorf("%w: shipping_address incomplete", ErrValidation)
	}
	if req.PaymentMethod == "" {
		return uuid.Nil, fmt.Errorf("%w: payment_method required", ErrValidation)
	}
	if req.ItemsPrice == nil || req.TotalPrice == nil {
		return uuid.Nil, fmt.Errorf("%w: items_price and total_price required", ErrValidation)
	}
	if *req.ItemsPrice < 0 || req.TaxPrice < 0 || req.ShippingPrice < 0 || *req.TotalPrice < 0 {
		return uuid.Nil, fmt.Errorf("%w: prices must be >= 0", ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, in := range req.Items {
		if in.ProductID == uuid.Nil {
			return uuid.Nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if in.Quantity < 1 {
			return uuid.Nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
		}

		product, err := s.Repo.GetProduct(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, fmt.Errorf("%w: product %s", ErrNotFound, in.ProductID)
			}
			return uuid.Nil, err
		}
		if in.Quantity > product.Stock {
			return uuid.Nil, &InsufficientStockError{
				ProductID: in.ProductID,
				Requested: in.Quantity,
				Available: product.Stock,
			}
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			NameEn:    product.NameEn,
			NameAr:    product.NameAr,
			Quantity:  in.Quantity,
			UnitPrice: product.Price,
			Image:     product.FirstImage(),
		})
	}

	order := &models.Order{
		UserID: userID,
		Items:  items,
		ShippingAddress: models.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
			State:      req.ShippingAddress.State,
			Phone:      req.ShippingAddress.Phone,
		},
		PaymentMethod: req.PaymentMethod,
		ItemsPrice:    *req.ItemsPrice,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    *req.TotalPrice,
		Status:        models.OrderStatusPending,
	}

	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return uuid.Nil, err
	}

	return order.ID, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID, requesterID uuid.UUID, role string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, err
	}

	if order.UserID != requesterID && !ElevatedRole(role) {
		return nil, fmt.Errorf("%w: order %s", ErrForbidden, orderID)
	}

	return order, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) ListAllOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, offset, limit)
}

// UpdateStatus moves an order along the transition table. Setting Delivered
// also stamps the delivery fields if they are not set yet.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}

	var updated *models.Order
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
			}
			return err
		}

		if !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidState, order.Status, next)
		}

		order.Status = next
		if next == models.OrderStatusDelivered && !order.IsDelivered {
			now := time.Now().UTC()
			order.IsDelivered = true
			order.DeliveredAt = &now
		}

		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
