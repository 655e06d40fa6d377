package database

import (
	"github.com/wekeepgrowing/shop-stripe/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table the shop owns, in dependency order
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderPayment{},
		&model.CustomerMapping{},
	}
}

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(Models()...); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if db.Dialector.Name() == "postgres" {
		if err := createCustomIndexes(db); err != nil {
			logger.Error("Failed to create custom indexes", zap.Error(err))
			return err
		}
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates partial indexes GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// Orders still waiting for staff confirmation
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_orders_awaiting_confirmation ON orders (created_at) WHERE status = 'charge_credit_card'`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_order_payments_transaction ON order_payments (transaction_id) WHERE payment_method = 'stripe-payment'`).Error; err != nil {
		return err
	}

	return nil
}
