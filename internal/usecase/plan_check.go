package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/wekeepgrowing/shop-stripe/internal/domain/errors"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/provider"
	"go.uber.org/zap"
)

// PlanCheckService verifies that the configured subscription plan can be billed
type PlanCheckService struct {
	gateway provider.PaymentGateway
	logger  *zap.Logger
}

func NewPlanCheckService(gateway provider.PaymentGateway, logger *zap.Logger) *PlanCheckService {
	return &PlanCheckService{
		gateway: gateway,
		logger:  logger,
	}
}

// Verify fetches the plan price and rejects it unless it is active and recurring.
func (s *PlanCheckService) Verify(ctx context.Context, planID string) (*provider.Price, error) {
	if planID == "" {
		return nil, domainErrors.ErrNoSubscriptionPlan
	}

	price, err := s.gateway.GetPrice(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch plan %s: %w", planID, err)
	}

	if !price.Active {
		return price, fmt.Errorf("plan %s is not active", planID)
	}
	if price.Interval == "" {
		return price, fmt.Errorf("plan %s is not a recurring price", planID)
	}

	s.logger.Info("Subscription plan verified",
		zap.String("plan_id", price.ID),
		zap.String("currency", price.Currency),
		zap.Int64("unit_amount", price.UnitAmount),
		zap.String("interval", price.Interval))

	return price, nil
}
