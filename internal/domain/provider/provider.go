package provider

import (
	"context"
)

// PaymentGateway defines the calls the checkout makes against the card processor
type PaymentGateway interface {
	// CreateCharge charges a tokenized card immediately
	CreateCharge(ctx context.Context, req *ChargeRequest) (*Charge, error)

	// CreateCustomer registers a customer record at the provider
	CreateCustomer(ctx context.Context, req *CustomerRequest) (*Customer, error)

	// CreateSubscription attaches a recurring plan to an existing customer
	CreateSubscription(ctx context.Context, req *SubscriptionRequest) (*Subscription, error)

	// GetPrice looks up a recurring plan price
	GetPrice(ctx context.Context, priceID string) (*Price, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// ChargeRequest represents a one-off card charge
type ChargeRequest struct {
	Amount      int64             `json:"amount"` // Amount in smallest currency unit
	Currency    string            `json:"currency"`
	Source      string            `json:"source"` // Tokenized card
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Charge is the provider's answer to a charge request
type Charge struct {
	ID       string       `json:"id"`
	Amount   int64        `json:"amount"`
	Currency string       `json:"currency"`
	Status   ChargeStatus `json:"status"`
	Paid     bool         `json:"paid"`
}

// Succeeded reports whether the provider captured the funds
func (c *Charge) Succeeded() bool {
	return c.Status == ChargeStatusSucceeded
}

// CustomerRequest represents a customer registration
type CustomerRequest struct {
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SubscriptionRequest subscribes a customer to a plan
type SubscriptionRequest struct {
	CustomerID string `json:"customer_id"`
	PriceID    string `json:"price_id"`
}

type Subscription struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	PriceID    string `json:"price_id"`
	Status     string `json:"status"`
}

type Price struct {
	ID         string `json:"id"`
	Active     bool   `json:"active"`
	Currency   string `json:"currency"`
	UnitAmount int64  `json:"unit_amount"`
	Interval   string `json:"interval,omitempty"`
}

// ChargeStatus represents the status of a charge
type ChargeStatus string

const (
	ChargeStatusSucceeded ChargeStatus = "succeeded"
	ChargeStatusPending   ChargeStatus = "pending"
	ChargeStatusFailed    ChargeStatus = "failed"
)

// ProviderType represents the type of payment provider
type ProviderType string

const (
	ProviderTypeStripe ProviderType = "stripe"
)

const (
	ErrCodeTokenMissing     = "token_missing"
	ErrCodeChargeNotSucceed = "charge_not_succeeded"
	ErrCodeCardDeclined     = "card_declined"
	ErrCodeAPI              = "api_error"
)

// Error types for provider operations
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}
