package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/wekeepgrowing/shop-stripe/internal/domain/errors"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/model"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/provider"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/repository"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/workflow"
	apperrors "github.com/wekeepgrowing/shop-stripe/pkg/errors"
	"github.com/wekeepgrowing/shop-stripe/pkg/messaging"
	"go.uber.org/zap"
)

// CheckoutConfig carries the settings the Stripe checkout depends on.
// ThankYouURL may contain "{number}", replaced with the order number.
type CheckoutConfig struct {
	PurchaseDescription string
	SubscriptionPlan    string
	ThankYouURL         string
	EventChannel        string
}

// PaymentRequest is the continuation handed to the client after checkout
type PaymentRequest struct {
	Expression  string `json:"expression"`
	RedirectURL string `json:"redirect_url"`
}

// CheckoutService charges stored Stripe tokens and turns carts into paid orders
type CheckoutService struct {
	cartRepo            repository.CartRepository
	orderRepo           repository.OrderRepository
	userRepo            repository.UserRepository
	customerMappingRepo repository.CustomerMappingRepository
	gateway             provider.PaymentGateway
	publisher           messaging.RedisClient
	cfg                 CheckoutConfig
	logger              *zap.Logger
	now                 func() time.Time
}

// NewCheckoutService creates a new checkout service instance
func NewCheckoutService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	customerMappingRepo repository.CustomerMappingRepository,
	gateway provider.PaymentGateway,
	publisher messaging.RedisClient,
	cfg CheckoutConfig,
	logger *zap.Logger,
) *CheckoutService {
	if publisher == nil {
		publisher = messaging.NopClient{}
	}
	if cfg.EventChannel == "" {
		cfg.EventChannel = OrderEventChannel
	}
	return &CheckoutService{
		cartRepo:            cartRepo,
		orderRepo:           orderRepo,
		userRepo:            userRepo,
		customerMappingRepo: customerMappingRepo,
		gateway:             gateway,
		publisher:           publisher,
		cfg:                 cfg,
		logger:              logger,
		now:                 time.Now,
	}
}

// SaveToken stores the card token in the user's cart for a later charge
func (s *CheckoutService) SaveToken(ctx context.Context, userID uuid.UUID, token string) error {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return domainErrors.ErrCartNotFound
	}

	cart.SetStripeToken(token)
	if err := s.cartRepo.SavePaymentMethod(ctx, cart); err != nil {
		return fmt.Errorf("failed to save payment method: %w", err)
	}

	s.logger.Debug("Stored Stripe token in cart",
		zap.Int64("cart_id", cart.ID),
		zap.String("user_id", userID.String()))
	return nil
}

// ChargeWithToken stores the token and immediately runs the checkout
func (s *CheckoutService) ChargeWithToken(ctx context.Context, userID uuid.UUID, token string) (*PaymentRequest, error) {
	if err := s.SaveToken(ctx, userID, token); err != nil {
		return nil, err
	}
	return s.Checkout(ctx, userID)
}

// Checkout loads the user's cart and runs GetPaymentRequest on it.
// The user record is read when the cart was loaded without one.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID) (*PaymentRequest, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return nil, domainErrors.ErrCartNotFound
	}

	user := cart.User
	if user == nil {
		user, err = s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
	return s.GetPaymentRequest(ctx, cart, user)
}

// GetPaymentRequest charges the cart, subscribes the customer when a plan is
// configured and returns the redirect to the newest order's thank-you page.
// Every failure is reported as a validation error carrying the cause's message.
func (s *CheckoutService) GetPaymentRequest(ctx context.Context, cart *model.Cart, user *model.User) (*PaymentRequest, error) {
	order, err := s.Charge(ctx, cart, user)
	if err != nil {
		return nil, toValidationError(err)
	}

	if s.cfg.SubscriptionPlan != "" {
		if _, err := s.Subscribe(ctx, cart, user); err != nil {
			return nil, toValidationError(err)
		}
	}

	latest, err := s.orderRepo.GetLatestByUserID(ctx, order.UserID)
	if err != nil {
		return nil, toValidationError(err)
	}
	if latest == nil {
		latest = order
	}

	redirectURL := s.ThankYouURL(latest)
	return &PaymentRequest{
		Expression:  "$window.location.href=" + strconv.Quote(redirectURL) + ";",
		RedirectURL: redirectURL,
	}, nil
}

// Charge creates an order from the cart and charges the stored token for the cart total.
// No order is created when the cart carries no token.
func (s *CheckoutService) Charge(ctx context.Context, cart *model.Cart, user *model.User) (*model.Order, error) {
	token, ok := cart.StripeToken()
	if !ok {
		return nil, &provider.ProviderError{
			Code:    provider.ErrCodeTokenMissing,
			Message: "No stripe token found in cart",
		}
	}

	userID, err := cartOwner(cart, user)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}

	total := cart.Total()
	amount, err := total.AsInteger()
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		Number:   model.NewOrderNumber(s.now()),
		UserID:   userID,
		Currency: total.Currency,
	}
	if err := workflow.Create(ctx, order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	charge, err := s.gateway.CreateCharge(ctx, &provider.ChargeRequest{
		Amount:      amount,
		Currency:    strings.ToLower(total.Currency),
		Source:      token,
		Description: s.cfg.PurchaseDescription,
		Metadata:    map[string]string{"order_number": order.Number},
	})
	if err != nil {
		return nil, err
	}

	if !charge.Succeeded() {
		s.logger.Warn("Stripe charge did not succeed",
			zap.String("charge_id", charge.ID),
			zap.String("status", string(charge.Status)),
			zap.String("order_number", order.Number))
		return nil, &provider.ProviderError{
			Code:    provider.ErrCodeChargeNotSucceed,
			Message: fmt.Sprintf("Stripe returned status '%s' for id: %s", charge.Status, charge.ID),
		}
	}

	// The card is charged from here on; failures must be traceable to the charge.
	order.PopulateFromCart(cart)
	if err := workflow.AddCharge(ctx, order, charge); err != nil {
		s.logChargedWithoutOrder(charge, order, err)
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logChargedWithoutOrder(charge, order, err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if err := s.cartRepo.Empty(ctx, cart); err != nil {
		s.logger.Error("Failed to empty cart after checkout",
			zap.Int64("cart_id", cart.ID),
			zap.String("order_number", order.Number),
			zap.Error(err))
	}

	s.publishOrderPaid(ctx, order, charge)

	s.logger.Info("Order paid by credit card",
		zap.String("order_number", order.Number),
		zap.String("charge_id", charge.ID),
		zap.Stringer("total", total))

	return order, nil
}

// Subscribe looks up or creates the Stripe customer of the cart's user and
// subscribes it to the configured plan. Every call creates a new subscription.
func (s *CheckoutService) Subscribe(ctx context.Context, cart *model.Cart, user *model.User) (*provider.Subscription, error) {
	if s.cfg.SubscriptionPlan == "" {
		return nil, domainErrors.ErrNoSubscriptionPlan
	}
	if user == nil {
		user = cart.User
	}
	if user == nil {
		return nil, domainErrors.ErrCartWithoutUser
	}

	mapping, err := s.getOrCreateCustomerMapping(ctx, user)
	if err != nil {
		return nil, err
	}

	sub, err := s.gateway.CreateSubscription(ctx, &provider.SubscriptionRequest{
		CustomerID: mapping.ProviderCustomerID,
		PriceID:    s.cfg.SubscriptionPlan,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Subscribed customer to plan",
		zap.String("user_id", user.ID.String()),
		zap.String("customer_id", mapping.ProviderCustomerID),
		zap.String("subscription_id", sub.ID),
		zap.String("plan", s.cfg.SubscriptionPlan))

	return sub, nil
}

func (s *CheckoutService) getOrCreateCustomerMapping(ctx context.Context, user *model.User) (*model.CustomerMapping, error) {
	mapping, err := s.customerMappingRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer mapping: %w", err)
	}
	if mapping != nil {
		return mapping, nil
	}

	customer, err := s.gateway.CreateCustomer(ctx, &provider.CustomerRequest{
		Email:    user.Email,
		Name:     user.FullName(),
		Metadata: map[string]string{"user_id": user.ID.String()},
	})
	if err != nil {
		return nil, err
	}

	stored, err := s.customerMappingRepo.Create(ctx, &model.CustomerMapping{
		UserID:             user.ID,
		ProviderCustomerID: customer.ID,
		CustomerEmail:      user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer mapping: %w", err)
	}

	if stored.ProviderCustomerID != customer.ID {
		s.logger.Warn("Customer mapping created concurrently, Stripe customer left unused",
			zap.String("user_id", user.ID.String()),
			zap.String("unused_customer_id", customer.ID),
			zap.String("customer_id", stored.ProviderCustomerID))
	} else {
		s.logger.Info("Created Stripe customer mapping",
			zap.String("user_id", user.ID.String()),
			zap.String("customer_id", customer.ID))
	}
	return stored, nil
}

// ThankYouURL renders the configured thank-you page for the order
func (s *CheckoutService) ThankYouURL(order *model.Order) string {
	if s.cfg.ThankYouURL == "" {
		return "/shop/orders/" + order.Number
	}
	return strings.ReplaceAll(s.cfg.ThankYouURL, "{number}", order.Number)
}

func (s *CheckoutService) publishOrderPaid(ctx context.Context, order *model.Order, charge *provider.Charge) {
	event := OrderEvent{
		Type:          OrderEventPaid,
		OrderNumber:   order.Number,
		UserID:        order.UserID.String(),
		Status:        string(order.Status),
		Amount:        order.AmountPaid().String(),
		Currency:      order.Currency,
		TransactionID: charge.ID,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, s.cfg.EventChannel, event); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("event", event.Type),
			zap.String("order_number", order.Number),
			zap.Error(err))
	}
}

func (s *CheckoutService) logChargedWithoutOrder(charge *provider.Charge, order *model.Order, err error) {
	s.logger.Error("Stripe charge succeeded but the order could not be recorded",
		zap.String("charge_id", charge.ID),
		zap.Int64("amount", charge.Amount),
		zap.String("currency", charge.Currency),
		zap.String("order_number", order.Number),
		zap.Error(err))
}

func cartOwner(cart *model.Cart, user *model.User) (uuid.UUID, error) {
	if user != nil && user.ID != uuid.Nil {
		return user.ID, nil
	}
	if cart.UserID != nil && *cart.UserID != uuid.Nil {
		return *cart.UserID, nil
	}
	return uuid.Nil, domainErrors.ErrCartWithoutUser
}

// toValidationError surfaces provider and local failures to the client with the provider's message
func toValidationError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	var providerErr *provider.ProviderError
	if errors.As(err, &providerErr) {
		return apperrors.NewValidationError(providerErr.Message, err)
	}
	return apperrors.NewValidationError(err.Error(), err)
}
