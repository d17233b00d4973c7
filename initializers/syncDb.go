package initializers

import (
	"go.uber.org/zap"

	"github.com/Kariqs/grocery-api/models"
)

func SyncDatabase() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.SubCategory{},
		&models.Product{},
		&models.Address{},
		&models.CartItem{},
		&models.Order{},
		&models.ProcessedSession{},
	)
	if err != nil {
		zap.L().Fatal("Database migration failed", zap.Error(err))
	}
	zap.L().Info("Database synced successfully.")
}
