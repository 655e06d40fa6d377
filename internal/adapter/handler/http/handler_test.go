package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/wekeepgrowing/shop-stripe/internal/domain/errors"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/model"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/provider"
	"github.com/wekeepgrowing/shop-stripe/internal/middleware/auth"
	"github.com/wekeepgrowing/shop-stripe/internal/usecase"
	apperrors "github.com/wekeepgrowing/shop-stripe/pkg/errors"
	"github.com/wekeepgrowing/shop-stripe/pkg/logger"
	"go.uber.org/zap"
)

type MockCheckoutUsecase struct {
	mock.Mock
}

func (m *MockCheckoutUsecase) SaveToken(ctx context.Context, userID uuid.UUID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *MockCheckoutUsecase) ChargeWithToken(ctx context.Context, userID uuid.UUID, token string) (*usecase.PaymentRequest, error) {
	args := m.Called(ctx, userID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PaymentRequest), args.Error(1)
}

func (m *MockCheckoutUsecase) Checkout(ctx context.Context, userID uuid.UUID) (*usecase.PaymentRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PaymentRequest), args.Error(1)
}

type MockOrderUsecase struct {
	mock.Mock
}

func (m *MockOrderUsecase) GetOrder(ctx context.Context, number string, userID uuid.UUID, admin bool) (*usecase.OrderDetail, error) {
	args := m.Called(ctx, number, userID, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.OrderDetail), args.Error(1)
}

func (m *MockOrderUsecase) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*usecase.OrderDetail, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*usecase.OrderDetail), args.Error(1)
}

func (m *MockOrderUsecase) AcknowledgePayment(ctx context.Context, number string, userID uuid.UUID, admin bool) (*usecase.OrderDetail, error) {
	args := m.Called(ctx, number, userID, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.OrderDetail), args.Error(1)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	logger.WithEchoLogger(e, zap.NewNop())
	return e
}

func doRequest(e *echo.Echo, method, path, body string, user *auth.AuthUser) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if user != nil {
		req = req.WithContext(auth.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCheckoutHandler_SaveToken(t *testing.T) {
	user := &auth.AuthUser{UserID: uuid.New()}

	t.Run("stores token", func(t *testing.T) {
		checkout := new(MockCheckoutUsecase)
		e := newTestEcho()
		e.POST("/save-token", NewCheckoutHandler(checkout, zap.NewNop()).SaveToken)
		checkout.On("SaveToken", mock.Anything, user.UserID, "tok_visa").Return(nil).Once()

		rec := doRequest(e, http.MethodPost, "/save-token", `{"token":"tok_visa"}`, user)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		checkout.AssertExpectations(t)
	})

	t.Run("missing token is a validation error", func(t *testing.T) {
		checkout := new(MockCheckoutUsecase)
		e := newTestEcho()
		e.POST("/save-token", NewCheckoutHandler(checkout, zap.NewNop()).SaveToken)

		rec := doRequest(e, http.MethodPost, "/save-token", `{}`, user)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, apperrors.ErrInvalidArgument, body["code"])
		assert.Equal(t, "token: This field is required", body["error"])
		checkout.AssertNotCalled(t, "SaveToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cart not found", func(t *testing.T) {
		checkout := new(MockCheckoutUsecase)
		e := newTestEcho()
		e.POST("/save-token", NewCheckoutHandler(checkout, zap.NewNop()).SaveToken)
		checkout.On("SaveToken", mock.Anything, user.UserID, "tok_visa").Return(domainErrors.ErrCartNotFound).Once()

		rec := doRequest(e, http.MethodPost, "/save-token", `{"token":"tok_visa"}`, user)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		e := newTestEcho()
		e.POST("/save-token", NewCheckoutHandler(new(MockCheckoutUsecase), zap.NewNop()).SaveToken)

		rec := doRequest(e, http.MethodPost, "/save-token", `{"token":"tok_visa"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCheckoutHandler_Charge(t *testing.T) {
	user := &auth.AuthUser{UserID: uuid.New()}

	t.Run("returns thank you url", func(t *testing.T) {
		checkout := new(MockCheckoutUsecase)
		e := newTestEcho()
		e.POST("/charge", NewCheckoutHandler(checkout, zap.NewNop()).Charge)
		checkout.On("ChargeWithToken", mock.Anything, user.UserID, "tok_visa").
			Return(&usecase.PaymentRequest{RedirectURL: "https://shop.example.com/orders/1/thanks"}, nil).Once()

		rec := doRequest(e, http.MethodPost, "/charge", `{"token":"tok_visa"}`, user)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://shop.example.com/orders/1/thanks", decodeBody(t, rec)["thank_you_url"])
	})

	t.Run("provider message is returned as bad request", func(t *testing.T) {
		checkout := new(MockCheckoutUsecase)
		e := newTestEcho()
		e.POST("/charge", NewCheckoutHandler(checkout, zap.NewNop()).Charge)
		checkout.On("ChargeWithToken", mock.Anything, user.UserID, "tok_visa").
			Return(nil, apperrors.NewValidationError("Your card was declined.", &provider.ProviderError{Code: "card_declined", Message: "Your card was declined."})).Once()

		rec := doRequest(e, http.MethodPost, "/charge", `{"token":"tok_visa"}`, user)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Your card was declined.", body["error"])
		assert.Equal(t, apperrors.ErrInvalidArgument, body["code"])
	})
}

func TestCheckoutHandler_PaymentRequest(t *testing.T) {
	user := &auth.AuthUser{UserID: uuid.New()}
	checkout := new(MockCheckoutUsecase)
	e := newTestEcho()
	e.POST("/payment-request", NewCheckoutHandler(checkout, zap.NewNop()).PaymentRequest)
	checkout.On("Checkout", mock.Anything, user.UserID).Return(&usecase.PaymentRequest{
		Expression:  `$window.location.href="/thanks";`,
		RedirectURL: "/thanks",
	}, nil).Once()

	rec := doRequest(e, http.MethodPost, "/payment-request", "", user)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, `$window.location.href="/thanks";`, body["expression"])
	assert.Equal(t, "/thanks", body["redirect_url"])
}

func sampleDetail(userID uuid.UUID, status model.OrderStatus) *usecase.OrderDetail {
	return &usecase.OrderDetail{
		Order: &model.Order{
			Number:   "20261019-0000ABCD",
			UserID:   userID,
			Status:   status,
			Currency: "USD",
			Total:    decimal.NewFromInt(39),
		},
		StatusLabel: status.Label(),
		AmountPaid:  "39",
	}
}

func TestOrderHandler(t *testing.T) {
	customer := &auth.AuthUser{UserID: uuid.New(), Role: "customer"}
	admin := &auth.AuthUser{UserID: uuid.New(), Role: auth.RoleAdmin}

	t.Run("list orders", func(t *testing.T) {
		orders := new(MockOrderUsecase)
		e := newTestEcho()
		e.GET("/orders", NewOrderHandler(orders, zap.NewNop()).ListOrders)
		orders.On("ListOrders", mock.Anything, customer.UserID, 5, 10).
			Return([]*usecase.OrderDetail{sampleDetail(customer.UserID, model.OrderStatusChargeCreditCard)}, nil).Once()

		rec := doRequest(e, http.MethodGet, "/orders?limit=5&offset=10", "", customer)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		require.Len(t, body["orders"], 1)
		first := body["orders"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "20261019-0000ABCD", first["number"])
		assert.Equal(t, "Paid by Credit Card", first["status_label"])
	})

	t.Run("get order not found", func(t *testing.T) {
		orders := new(MockOrderUsecase)
		e := newTestEcho()
		e.GET("/orders/:number", NewOrderHandler(orders, zap.NewNop()).GetOrder)
		orders.On("GetOrder", mock.Anything, "missing", customer.UserID, false).Return(nil, domainErrors.ErrOrderNotFound).Once()

		rec := doRequest(e, http.MethodGet, "/orders/missing", "", customer)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apperrors.ErrNotFound, decodeBody(t, rec)["code"])
	})

	t.Run("list orders rejects malformed paging", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
		}{
			{"limit not a number", "limit=ten"},
			{"offset not a number", "offset=1.5"},
			{"negative offset", "offset=-1"},
			{"negative limit", "limit=-5"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				orders := new(MockOrderUsecase)
				e := newTestEcho()
				e.GET("/orders", NewOrderHandler(orders, zap.NewNop()).ListOrders)

				rec := doRequest(e, http.MethodGet, "/orders?"+tt.query, "", customer)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, apperrors.ErrInvalidArgument, decodeBody(t, rec)["code"])
				orders.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("acknowledge by non staff is forbidden", func(t *testing.T) {
		orders := new(MockOrderUsecase)
		e := newTestEcho()
		e.POST("/orders/:number/acknowledge-payment", NewOrderHandler(orders, zap.NewNop()).AcknowledgePayment)
		orders.On("AcknowledgePayment", mock.Anything, "20261019-0000ABCD", customer.UserID, false).
			Return(nil, &domainErrors.TransitionError{Event: "acknowledge_payment", Status: "charge_credit_card", Err: domainErrors.ErrPermissionDenied}).Once()

		rec := doRequest(e, http.MethodPost, "/orders/20261019-0000ABCD/acknowledge-payment", "", customer)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, apperrors.ErrUnauthorized, decodeBody(t, rec)["code"])
	})

	t.Run("acknowledge confirms payment", func(t *testing.T) {
		orders := new(MockOrderUsecase)
		e := newTestEcho()
		e.POST("/orders/:number/acknowledge-payment", NewOrderHandler(orders, zap.NewNop()).AcknowledgePayment)
		orders.On("AcknowledgePayment", mock.Anything, "20261019-0000ABCD", admin.UserID, true).
			Return(sampleDetail(customer.UserID, model.OrderStatusPaymentConfirmed), nil).Once()

		rec := doRequest(e, http.MethodPost, "/orders/20261019-0000ABCD/acknowledge-payment", "", admin)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "payment_confirmed", decodeBody(t, rec)["status"])
	})

	t.Run("acknowledge partially paid order conflicts", func(t *testing.T) {
		orders := new(MockOrderUsecase)
		e := newTestEcho()
		e.POST("/orders/:number/acknowledge-payment", NewOrderHandler(orders, zap.NewNop()).AcknowledgePayment)
		orders.On("AcknowledgePayment", mock.Anything, "20261019-0000ABCD", admin.UserID, true).
			Return(nil, &domainErrors.TransitionError{Event: "acknowledge_payment", Status: "charge_credit_card", Err: domainErrors.ErrNotFullyPaid}).Once()

		rec := doRequest(e, http.MethodPost, "/orders/20261019-0000ABCD/acknowledge-payment", "", admin)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, apperrors.ErrFailedPrecondition, decodeBody(t, rec)["code"])
	})
}

func TestToAppError(t *testing.T) {
	assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(toAppError(&provider.ProviderError{Code: "token_missing", Message: "No stripe token found in cart"})))
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(toAppError(domainErrors.ErrPermissionDenied)))
	assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(toAppError(domainErrors.ErrCurrencyMismatch)))
	assert.Equal(t, apperrors.ErrInternal, apperrors.CodeOf(toAppError(assert.AnError)))
}
