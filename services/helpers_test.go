package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Kariqs/grocery-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.SubCategory{},
		&models.Product{},
		&models.Address{},
		&models.CartItem{},
		&models.Order{},
		&models.ProcessedSession{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price, discount int64) models.Product {
	t.Helper()

	p := models.Product{
		Name:     name,
		Image:    []string{name + ".jpg"},
		Unit:     "1 kg",
		Stock:    25,
		Price:    decimal.NewFromInt(price),
		Discount: decimal.NewFromInt(discount),
		Publish:  true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedAddress(t *testing.T, db *gorm.DB, userID uint) models.Address {
	t.Helper()

	a := models.Address{
		UserID:      userID,
		AddressLine: "12 Market Road",
		City:        "Pune",
		State:       "MH",
		Country:     "India",
		Pincode:     "411001",
		Mobile:      "9999999999",
		Status:      true,
	}
	require.NoError(t, db.Create(&a).Error)
	return a
}

func seedCart(t *testing.T, carts *CartService, userID uint, product models.Product, quantity int) models.CartItem {
	t.Helper()

	ctx := context.Background()
	cart, err := carts.Add(ctx, userID, product.ID)
	require.NoError(t, err)

	var item models.CartItem
	for _, it := range cart.Items {
		if it.ProductID == product.ID {
			item = it
		}
	}
	require.NotZero(t, item.ID)

	if quantity != 1 {
		_, err = carts.SetQuantity(ctx, userID, item.ID, quantity)
		require.NoError(t, err)
		item.Quantity = quantity
	}
	return item
}

func countOrders(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}
