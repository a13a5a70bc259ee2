package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oakline/furniture_shop/internal/models"
	"github.com/oakline/furniture_shop/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to connect to in-memory db")

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	), "failed to migrate tables")

	return &repo.GormRepo{DB: db}
}

func seedProduct(t *testing.T, r *repo.GormRepo, stock uint, price float64) *models.Product {
	t.Helper()

	p := models.Product{
		NameEn:   "Oak Dining Table",
		NameAr:   "طاولة طعام من خشب البلوط",
		Slug:     "oak-dining-table-" + uuid.NewString()[:8],
		Price:    price,
		Stock:    stock,
		IsActive: true,
		Images:   []string{"/images/oak-table.jpg"},
	}
	require.NoError(t, r.DB.Create(&p).Error)
	return &p
}

func cartCount(t *testing.T, r *repo.GormRepo, userID uuid.UUID) int64 {
	t.Helper()

	var n int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func currentStock(t *testing.T, r *repo.GormRepo, productID uuid.UUID) uint {
	t.Helper()

	var p models.Product
	require.NoError(t, r.DB.First(&p, "id = ?", productID).Error)
	return p.Stock
}
