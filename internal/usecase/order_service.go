package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/wekeepgrowing/shop-stripe/internal/domain/errors"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/model"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/repository"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/workflow"
	"github.com/wekeepgrowing/shop-stripe/pkg/messaging"
	"go.uber.org/zap"
)

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

// OrderDetail is an order together with the transitions the caller may fire
type OrderDetail struct {
	*model.Order
	StatusLabel          string   `json:"status_label"`
	AmountPaid           string   `json:"amount_paid"`
	AvailableTransitions []string `json:"available_transitions"`
}

// OrderService exposes orders to their owners and lets staff confirm payments.
// Staff are callers with the admin role claim or a user record flagged is_staff.
type OrderService struct {
	orderRepo    repository.OrderRepository
	userRepo     repository.UserRepository
	publisher    messaging.RedisClient
	eventChannel string
	logger       *zap.Logger
}

// NewOrderService creates a new order service instance
func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, publisher messaging.RedisClient, eventChannel string, logger *zap.Logger) *OrderService {
	if publisher == nil {
		publisher = messaging.NopClient{}
	}
	if eventChannel == "" {
		eventChannel = OrderEventChannel
	}
	return &OrderService{
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		eventChannel: eventChannel,
		logger:       logger,
	}
}

// GetOrder returns an order visible to the caller. Staff may read any order.
func (s *OrderService) GetOrder(ctx context.Context, number string, userID uuid.UUID, admin bool) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	staff, err := s.isStaff(ctx, userID, admin)
	if err != nil {
		return nil, err
	}
	if !staff && order.UserID != userID {
		return nil, domainErrors.ErrOrderNotFound
	}
	return newOrderDetail(order, staff), nil
}

// ListOrders returns the caller's orders, newest first. Orders that were never paid are left out.
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*OrderDetail, error) {
	if limit <= 0 {
		limit = defaultOrderPageSize
	}
	if limit > maxOrderPageSize {
		limit = maxOrderPageSize
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orderRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	details := make([]*OrderDetail, 0, len(orders))
	for _, order := range orders {
		details = append(details, newOrderDetail(order, false))
	}
	return details, nil
}

// AcknowledgePayment moves a fully paid order to payment_confirmed on behalf of a staff user
func (s *OrderService) AcknowledgePayment(ctx context.Context, number string, userID uuid.UUID, admin bool) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	staff, err := s.isStaff(ctx, userID, admin)
	if err != nil {
		return nil, err
	}

	if err := workflow.AcknowledgePayment(ctx, order, staff); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	event := OrderEvent{
		Type:        OrderEventConfirmed,
		OrderNumber: order.Number,
		UserID:      order.UserID.String(),
		Status:      string(order.Status),
		Amount:      order.AmountPaid().String(),
		Currency:    order.Currency,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, s.eventChannel, event); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("event", event.Type),
			zap.String("order_number", order.Number),
			zap.Error(err))
	}

	s.logger.Info("Payment acknowledged",
		zap.String("order_number", order.Number),
		zap.String("acknowledged_by", userID.String()))

	return newOrderDetail(order, staff), nil
}

func (s *OrderService) isStaff(ctx context.Context, userID uuid.UUID, admin bool) (bool, error) {
	if admin {
		return true, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	return user.IsStaff, nil
}

func newOrderDetail(order *model.Order, admin bool) *OrderDetail {
	return &OrderDetail{
		Order:                order,
		StatusLabel:          order.Status.Label(),
		AmountPaid:           order.AmountPaid().String(),
		AvailableTransitions: workflow.AvailableTransitions(order, admin),
	}
}
