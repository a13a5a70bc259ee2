package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/furniture_shop/internal/cache"
	"github.com/oakline/furniture_shop/internal/logging"
	"github.com/oakline/furniture_shop/internal/models"
	"github.com/oakline/furniture_shop/internal/repo"
)

// CatalogService is the read face of the catalog: storefront product pages.
// Stock mutation stays with PaymentService, rating mutation with
// ReviewService.
type CatalogService struct {
	Repo  *repo.GormRepo
	Cache *cache.Cache
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	key := "product:" + id.String()

	if s.Cache != nil {
		var cached models.Product
		hit, err := s.Cache.Get(ctx, key, &cached)
		if err != nil {
			logging.FromContext(ctx).Warn("product_cache_read_failed", "product_id", id, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, product); err != nil {
			logging.FromContext(ctx).Warn("product_cache_write_failed", "product_id", id, "error", err)
		}
	}

	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, offset, limit)
}
