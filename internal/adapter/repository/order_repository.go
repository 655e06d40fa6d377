package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	domainErrors "github.com/wekeepgrowing/shop-stripe/internal/domain/errors"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/model"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/repository"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Save writes the order row and inserts items and payments that have no ID yet.
func (r *orderRepository) Save(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Payments").Save(order).Error; err != nil {
			return err
		}
		for i := range order.Items {
			if order.Items[i].ID != 0 {
				continue
			}
			order.Items[i].OrderID = order.ID
			if err := tx.Create(&order.Items[i]).Error; err != nil {
				return err
			}
		}
		for i := range order.Payments {
			if order.Payments[i].ID != 0 {
				continue
			}
			order.Payments[i].OrderID = order.ID
			if err := tx.Create(&order.Payments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_payments.id ASC")
		})
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	var order model.Order
	err := r.preloaded(ctx).Where("number = ?", number).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.preloaded(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// unpaidStatuses are orders whose charge never went through
var unpaidStatuses = []model.OrderStatus{model.OrderStatusNew, model.OrderStatusCreated}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Order, error) {
	var orders []*model.Order
	query := r.preloaded(ctx).
		Where("user_id = ?", userID).
		Where("status NOT IN ?", unpaidStatuses).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
