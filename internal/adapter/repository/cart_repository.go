package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/model"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *cartRepository) SavePaymentMethod(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).
		Model(&model.Cart{ID: cart.ID}).
		Update("payment_method", cart.PaymentMethod).Error
}

func (r *cartRepository) Empty(ctx context.Context, cart *model.Cart) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Cart{ID: cart.ID}).
			Select("payment_method", "extra").
			Updates(&model.Cart{PaymentMethod: datatypes.JSONMap{}, Extra: datatypes.JSONMap{}}).Error
	})
	if err != nil {
		return err
	}

	cart.Empty()
	return nil
}
