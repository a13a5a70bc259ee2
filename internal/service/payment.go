package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/furniture_shop/internal/cache"
	"github.com/oakline/furniture_shop/internal/logging"
	"github.com/oakline/furniture_shop/internal/models"
	"github.com/oakline/furniture_shop/internal/repo"
	"github.com/oakline/furniture_shop/internal/webhook"
)

// PaymentService is the only place allowed to decrement product stock and
// clear a customer's cart in the steady state.
type PaymentService struct {
	Repo  *repo.GormRepo
	Cache *cache.Cache
}

// MarkPaid confirms payment for an order. The paid flags, the Pending to
// Processing advance, the per-item stock decrement and the full cart clear
// all commit as one transaction. A second call for an already-paid order is
// a no-op, so duplicate webhook deliveries cannot double-decrement stock.
func (s *PaymentService) MarkPaid(ctx context.Context, orderID uuid.UUID, transactionID, payerEmail string) (*models.Order, error) {
	l := logging.FromContext(ctx)

	var paid *models.Order
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
			}
			return err
		}

		if order.IsPaid {
			l.Info("mark_paid_skipped", "order_id", orderID, "reason", "already paid")
			paid = order
			return nil
		}

		now := time.Now().UTC()
		order.IsPaid = true
		order.PaidAt = &now
		order.PaymentResult = models.PaymentResult{
			TransactionID: transactionID,
			Status:        "succeeded",
			Time:          &now,
			PayerEmail:    payerEmail,
		}
		if order.Status == models.OrderStatusPending {
			order.Status = models.OrderStatusProcessing
		}

		for _, item := range order.Items {
			if err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Product removed after the order was placed; the
					// snapshot stands, there is just no stock to adjust.
					l.Warn("stock_decrement_skipped", "order_id", orderID, "product_id", item.ProductID)
					continue
				}
				return err
			}
		}

		// The whole cart, not just the ordered items.
		if err := tx.ClearCart(ctx, order.UserID); err != nil {
			return err
		}

		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}
		paid = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProducts(ctx, paid.Items)

	return paid, nil
}

func (s *PaymentService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var delivered *models.Order
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
			}
			return err
		}

		if !order.IsPaid {
			return fmt.Errorf("%w: order %s is not paid", ErrInvalidState, orderID)
		}
		if order.Status == models.OrderStatusDelivered {
			delivered = order
			return nil
		}
		// A cancelled (or failed) order stays that way; delivery
		// confirmation must not resurrect it.
		if order.Status.Terminal() {
			return fmt.Errorf("%w: order %s is %s", ErrInvalidState, orderID, order.Status)
		}

		now := time.Now().UTC()
		order.IsDelivered = true
		order.DeliveredAt = &now
		order.Status = models.OrderStatusDelivered

		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}
		delivered = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return delivered, nil
}

// ProcessNotification applies a verified gateway notification. A succeeded
// payment goes through MarkPaid; any other status marks an unpaid order
// Failed without touching stock or the cart.
func (s *PaymentService) ProcessNotification(ctx context.Context, note *webhook.Notification) error {
	l := logging.FromContext(ctx)

	if note.Status == webhook.StatusSucceeded {
		_, err := s.MarkPaid(ctx, note.OrderID, note.TransactionID, note.PayerEmail)
		return err
	}

	return s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.GetOrder(ctx, note.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s", ErrNotFound, note.OrderID)
			}
			return err
		}

		if order.IsPaid {
			l.Warn("payment_failure_ignored", "order_id", note.OrderID, "reason", "order already paid")
			return nil
		}

		order.Status = models.OrderStatusFailed
		return tx.SaveOrder(ctx, order)
	})
}

func (s *PaymentService) invalidateProducts(ctx context.Context, items []models.OrderItem) {
	if s.Cache == nil {
		return
	}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, "product:"+item.ProductID.String())
	}
	if err := s.Cache.Delete(ctx, keys...); err != nil {
		logging.FromContext(ctx).Error("cache_invalidate_failed", "error", err)
	}
}
