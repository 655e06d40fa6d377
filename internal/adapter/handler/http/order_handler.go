package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/shop-stripe/internal/middleware/auth"
	"github.com/wekeepgrowing/shop-stripe/internal/usecase"
	apperrors "github.com/wekeepgrowing/shop-stripe/pkg/errors"
	"go.uber.org/zap"
)

// OrderUsecase is the part of the order service the handler drives
type OrderUsecase interface {
	GetOrder(ctx context.Context, number string, userID uuid.UUID, admin bool) (*usecase.OrderDetail, error)
	ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*usecase.OrderDetail, error)
	AcknowledgePayment(ctx context.Context, number string, userID uuid.UUID, admin bool) (*usecase.OrderDetail, error)
}

type OrderHandler struct {
	orders OrderUsecase
	logger *zap.Logger
}

func NewOrderHandler(orders OrderUsecase, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// ListOrdersQuery pages through the caller's orders. Limits above the page cap are clamped.
type ListOrdersQuery struct {
	Limit  int `query:"limit" json:"limit" validate:"gte=0"`
	Offset int `query:"offset" json:"offset" validate:"gte=0"`
}

type ListOrdersResponse struct {
	Orders []*usecase.OrderDetail `json:"orders"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var query ListOrdersQuery
	if err := c.Bind(&query); err != nil {
		return apperrors.FromHTTPError(err)
	}
	if err := c.Validate(&query); err != nil {
		return err
	}

	orders, err := h.orders.ListOrders(c.Request().Context(), user.UserID, query.Limit, query.Offset)
	if err != nil {
		return handleError(h.logger, err, "Failed to list orders",
			zap.String("user_id", user.UserID.String()))
	}

	return c.JSON(http.StatusOK, ListOrdersResponse{
		Orders: orders,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	number := c.Param("number")
	order, err := h.orders.GetOrder(c.Request().Context(), number, user.UserID, user.IsAdmin())
	if err != nil {
		return handleError(h.logger, err, "Failed to get order",
			zap.String("order_number", number))
	}
	return c.JSON(http.StatusOK, order)
}

// AcknowledgePayment confirms a fully paid order. Only staff may do this.
func (h *OrderHandler) AcknowledgePayment(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	number := c.Param("number")
	order, err := h.orders.AcknowledgePayment(c.Request().Context(), number, user.UserID, user.IsAdmin())
	if err != nil {
		return handleError(h.logger, err, "Failed to acknowledge payment",
			zap.String("order_number", number),
			zap.String("user_id", user.UserID.String()))
	}
	return c.JSON(http.StatusOK, order)
}
