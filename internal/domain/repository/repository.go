package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/model"
)

// UserRepository reads shop customers
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// CartRepository manages the active cart of a user
type CartRepository interface {
	// GetByUserID returns the cart with items and user loaded, or nil when the user has none
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	Create(ctx context.Context, cart *model.Cart) error
	// SavePaymentMethod persists only the payment_method column
	SavePaymentMethod(ctx context.Context, cart *model.Cart) error
	// Empty deletes the cart items and clears its checkout state
	Empty(ctx context.Context, cart *model.Cart) error
}

// OrderRepository persists orders with their items and payments
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	// Save updates the order and inserts new items and payments
	Save(ctx context.Context, order *model.Order) error
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	// GetLatestByUserID returns the newest order of the user, or nil when there is none
	GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*model.Order, error)
	// ListByUserID pages through the user's paid orders, newest first
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Order, error)
}

// CustomerMappingRepository links users to provider customers
type CustomerMappingRepository interface {
	// Create inserts the link; a concurrent insert for the same user returns the existing row
	Create(ctx context.Context, mapping *model.CustomerMapping) (*model.CustomerMapping, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.CustomerMapping, error)
}
