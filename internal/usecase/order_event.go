package usecase

import "time"

const (
	// OrderEventChannel is the default pub/sub channel for order events
	OrderEventChannel = "shop.orders"

	OrderEventPaid      = "order.paid"
	OrderEventConfirmed = "order.payment_confirmed"
)

// OrderEvent is published whenever an order changes status
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderNumber   string    `json:"order_number"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	Amount        string    `json:"amount,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
