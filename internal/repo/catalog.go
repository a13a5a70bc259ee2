package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/oakline/furniture_shop/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("is_active = ?", true).
		Order("name_en ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

// DecrementStock clamps at zero instead of letting stock go negative.
// Callers are expected to run it inside WithTx.
func (r *GormRepo) DecrementStock(ctx context.Context, id uuid.UUID, amount uint) error {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return err
	}

	newStock := uint(0)
	if product.Stock > amount {
		newStock = product.Stock - amount
	}

	return r.DB.WithContext(ctx).Model(&product).Update("stock", newStock).Error
}

func (r *GormRepo) UpdateProductRating(ctx context.Context, id uuid.UUID, average float64, count int64) error {
	return r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"average_rating": average,
			"num_reviews":    count,
		}).Error
}
