package model

import (
	"time"

	"github.com/google/uuid"
)

// CustomerMapping links a shop user to the Stripe customer created for them
type CustomerMapping struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	ProviderCustomerID string    `gorm:"column:provider_customer_id;not null;size:255;uniqueIndex" json:"provider_customer_id"`
	CustomerEmail      string    `gorm:"size:255" json:"customer_email"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (CustomerMapping) TableName() string {
	return "customer_mappings"
}
