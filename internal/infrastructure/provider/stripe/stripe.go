package stripe

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/wekeepgrowing/shop-stripe/internal/config"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/provider"
	"go.uber.org/zap"
)

// StripeProvider implements the PaymentGateway interface against the Stripe API
type StripeProvider struct {
	api    *client.API
	logger *zap.Logger
}

// NewStripeProvider creates a Stripe client with its own backend so tests and
// stripe-mock can point it at another URL.
func NewStripeProvider(cfg config.StripeConfig, logger *zap.Logger) *StripeProvider {
	backendConfig := &stripe.BackendConfig{
		LeveledLogger: logger.Sugar(),
	}
	if cfg.BackendURL != "" {
		backendConfig.URL = stripe.String(cfg.BackendURL)
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig),
	}

	CheckAPIVersion(cfg.APIVersion, logger)

	return &StripeProvider{
		api:    client.New(cfg.APIKey, backends),
		logger: logger,
	}
}

// CheckAPIVersion warns when the configured API version differs from the one the SDK is pinned to.
// It reports whether the versions match.
func CheckAPIVersion(configured string, logger *zap.Logger) bool {
	if configured == "" || configured == stripe.APIVersion {
		return true
	}
	logger.Warn("Configured Stripe API version differs from the SDK version",
		zap.String("configured", configured),
		zap.String("sdk", stripe.APIVersion))
	return false
}

// GetProviderName returns the provider name
func (s *StripeProvider) GetProviderName() string {
	return string(provider.ProviderTypeStripe)
}

// CreateCharge charges a card token
func (s *StripeProvider) CreateCharge(ctx context.Context, req *provider.ChargeRequest) (*provider.Charge, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Description),
	}
	if err := params.SetSource(req.Source); err != nil {
		return nil, &provider.ProviderError{Code: provider.ErrCodeTokenMissing, Message: "Invalid card token", Details: err.Error()}
	}
	params.Context = ctx
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	ch, err := s.api.Charges.New(params)
	if err != nil {
		s.logger.Error("Failed to create Stripe charge",
			zap.Int64("amount", req.Amount),
			zap.String("currency", req.Currency),
			zap.Error(err))
		return nil, toProviderError(err)
	}

	s.logger.Info("Created Stripe charge",
		zap.String("charge_id", ch.ID),
		zap.String("status", string(ch.Status)))

	return &provider.Charge{
		ID:       ch.ID,
		Amount:   ch.Amount,
		Currency: string(ch.Currency),
		Status:   provider.ChargeStatus(ch.Status),
		Paid:     ch.Paid,
	}, nil
}

// CreateCustomer creates a Stripe customer
func (s *StripeProvider) CreateCustomer(ctx context.Context, req *provider.CustomerRequest) (*provider.Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(req.Email),
	}
	if req.Name != "" {
		params.Name = stripe.String(req.Name)
	}
	params.Context = ctx
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	cus, err := s.api.Customers.New(params)
	if err != nil {
		s.logger.Error("Failed to create Stripe customer",
			zap.String("email", req.Email),
			zap.Error(err))
		return nil, toProviderError(err)
	}

	s.logger.Info("Created Stripe customer",
		zap.String("customer_id", cus.ID))

	return &provider.Customer{ID: cus.ID, Email: cus.Email}, nil
}

// CreateSubscription subscribes a customer to a price
func (s *StripeProvider) CreateSubscription(ctx context.Context, req *provider.SubscriptionRequest) (*provider.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(req.CustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(req.PriceID)},
		},
	}
	params.Context = ctx

	sub, err := s.api.Subscriptions.New(params)
	if err != nil {
		s.logger.Error("Failed to create Stripe subscription",
			zap.String("customer_id", req.CustomerID),
			zap.String("price_id", req.PriceID),
			zap.Error(err))
		return nil, toProviderError(err)
	}

	s.logger.Info("Created Stripe subscription",
		zap.String("subscription_id", sub.ID),
		zap.String("customer_id", req.CustomerID))

	return &provider.Subscription{
		ID:         sub.ID,
		CustomerID: req.CustomerID,
		PriceID:    req.PriceID,
		Status:     string(sub.Status),
	}, nil
}

// GetPrice retrieves a price, used to verify the configured subscription plan
func (s *StripeProvider) GetPrice(ctx context.Context, priceID string) (*provider.Price, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx

	p, err := s.api.Prices.Get(priceID, params)
	if err != nil {
		return nil, toProviderError(err)
	}

	price := &provider.Price{
		ID:         p.ID,
		Active:     p.Active,
		Currency:   string(p.Currency),
		UnitAmount: p.UnitAmount,
	}
	if p.Recurring != nil {
		price.Interval = string(p.Recurring.Interval)
	}
	return price, nil
}

func toProviderError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		code := string(stripeErr.Code)
		if code == "" {
			code = string(stripeErr.Type)
		}
		msg := stripeErr.Msg
		if msg == "" {
			msg = "Stripe request failed"
		}
		return &provider.ProviderError{
			Code:    code,
			Message: msg,
		}
	}

	return &provider.ProviderError{
		Code:    provider.ErrCodeAPI,
		Message: "Stripe request failed",
		Details: err.Error(),
	}
}
