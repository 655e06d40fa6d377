package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/shop-stripe/internal/middleware/auth"
	"github.com/wekeepgrowing/shop-stripe/internal/usecase"
	"go.uber.org/zap"
)

// CheckoutUsecase is the part of the checkout service the handler drives
type CheckoutUsecase interface {
	SaveToken(ctx context.Context, userID uuid.UUID, token string) error
	ChargeWithToken(ctx context.Context, userID uuid.UUID, token string) (*usecase.PaymentRequest, error)
	Checkout(ctx context.Context, userID uuid.UUID) (*usecase.PaymentRequest, error)
}

type CheckoutHandler struct {
	checkout CheckoutUsecase
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout CheckoutUsecase, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

type TokenRequest struct {
	Token string `json:"token" validate:"required,max=255"`
}

type ChargeResponse struct {
	ThankYouURL string `json:"thank_you_url"`
}

func (h *CheckoutHandler) bindToken(c echo.Context) (*TokenRequest, error) {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
			"code":  "INVALID_ARGUMENT",
		}).SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// SaveToken stores a Stripe card token in the caller's cart
func (h *CheckoutHandler) SaveToken(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	req, err := h.bindToken(c)
	if err != nil {
		return err
	}

	if err := h.checkout.SaveToken(c.Request().Context(), user.UserID, req.Token); err != nil {
		return handleError(h.logger, err, "Failed to save Stripe token",
			zap.String("user_id", user.UserID.String()))
	}
	return c.NoContent(http.StatusNoContent)
}

// Charge stores the token and charges the cart at once
func (h *CheckoutHandler) Charge(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	req, err := h.bindToken(c)
	if err != nil {
		return err
	}

	result, err := h.checkout.ChargeWithToken(c.Request().Context(), user.UserID, req.Token)
	if err != nil {
		return handleError(h.logger, err, "Stripe charge failed",
			zap.String("user_id", user.UserID.String()))
	}
	return c.JSON(http.StatusOK, ChargeResponse{ThankYouURL: result.RedirectURL})
}

// PaymentRequest charges the token stored in the cart and returns the client continuation
func (h *CheckoutHandler) PaymentRequest(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	result, err := h.checkout.Checkout(c.Request().Context(), user.UserID)
	if err != nil {
		return handleError(h.logger, err, "Stripe payment request failed",
			zap.String("user_id", user.UserID.String()))
	}
	return c.JSON(http.StatusOK, result)
}
