package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/model"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type customerMappingRepository struct {
	db *gorm.DB
}

func NewCustomerMappingRepository(db *gorm.DB) repository.CustomerMappingRepository {
	return &customerMappingRepository{
		db: db,
	}
}

// Create inserts the mapping unless the user already has one and returns the stored row.
// Losing a concurrent insert race yields the winner's mapping.
func (r *customerMappingRepository) Create(ctx context.Context, mapping *model.CustomerMapping) (*model.CustomerMapping, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(mapping).Error
	if err != nil {
		return nil, err
	}

	stored, err := r.GetByUserID(ctx, mapping.UserID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return stored, nil
}

func (r *customerMappingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.CustomerMapping, error) {
	var mapping model.CustomerMapping
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mapping, nil
}
