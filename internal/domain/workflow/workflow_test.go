package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/wekeepgrowing/shop-stripe/internal/domain/errors"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/model"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/provider"
)

func createdOrder() *model.Order {
	return &model.Order{
		ID:       7,
		Number:   "20261019-0000ABCD",
		Status:   model.OrderStatusCreated,
		Currency: "USD",
		Total:    decimal.RequireFromString("39.00"),
	}
}

func TestCreate(t *testing.T) {
	order := &model.Order{}
	require.NoError(t, Create(context.Background(), order))
	assert.Equal(t, model.OrderStatusCreated, order.Status)

	err := Create(context.Background(), order)
	assert.ErrorIs(t, err, domainErrors.ErrTransitionNotAllowed)
}

func TestAddCharge(t *testing.T) {
	order := createdOrder()
	charge := &provider.Charge{ID: "ch_123", Amount: 3900, Currency: "usd", Status: provider.ChargeStatusSucceeded}

	require.NoError(t, AddCharge(context.Background(), order, charge))

	assert.Equal(t, model.OrderStatusChargeCreditCard, order.Status)
	require.Len(t, order.Payments, 1)
	payment := order.Payments[0]
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("39")))
	assert.Equal(t, "USD", payment.Currency)
	assert.Equal(t, "ch_123", payment.TransactionID)
	assert.Equal(t, model.PaymentMethodStripe, payment.PaymentMethod)
	assert.Equal(t, int64(7), payment.OrderID)
}

func TestAddCharge_ZeroDecimalCurrency(t *testing.T) {
	order := createdOrder()
	order.Currency = "JPY"
	order.Total = decimal.NewFromInt(1200)

	require.NoError(t, AddCharge(context.Background(), order, &provider.Charge{ID: "ch_jpy", Amount: 1200, Currency: "jpy"}))
	assert.True(t, order.Payments[0].Amount.Equal(decimal.NewFromInt(1200)))
}

func TestAddCharge_CurrencyMismatch(t *testing.T) {
	order := createdOrder()

	err := AddCharge(context.Background(), order, &provider.Charge{ID: "ch_eur", Amount: 3900, Currency: "eur"})

	assert.ErrorIs(t, err, domainErrors.ErrCurrencyMismatch)
	assert.Empty(t, order.Payments)
	assert.Equal(t, model.OrderStatusCreated, order.Status)
}

func TestAddCharge_OnlyFromCreated(t *testing.T) {
	order := createdOrder()
	order.Status = model.OrderStatusChargeCreditCard

	err := AddCharge(context.Background(), order, &provider.Charge{ID: "ch_1", Amount: 100, Currency: "usd"})

	var transitionErr *domainErrors.TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, EventAddCharge, transitionErr.Event)
	assert.ErrorIs(t, err, domainErrors.ErrTransitionNotAllowed)
	assert.Empty(t, order.Payments)
}

func TestAcknowledgePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("requires staff", func(t *testing.T) {
		order := createdOrder()
		require.NoError(t, AddCharge(ctx, order, &provider.Charge{ID: "ch_1", Amount: 3900, Currency: "usd"}))

		err := AcknowledgePayment(ctx, order, false)
		assert.ErrorIs(t, err, domainErrors.ErrPermissionDenied)
		assert.Equal(t, model.OrderStatusChargeCreditCard, order.Status)
	})

	t.Run("requires full payment", func(t *testing.T) {
		order := createdOrder()
		require.NoError(t, AddCharge(ctx, order, &provider.Charge{ID: "ch_1", Amount: 1000, Currency: "usd"}))

		err := AcknowledgePayment(ctx, order, true)
		assert.ErrorIs(t, err, domainErrors.ErrNotFullyPaid)
		assert.Equal(t, model.OrderStatusChargeCreditCard, order.Status)
	})

	t.Run("confirms paid order", func(t *testing.T) {
		order := createdOrder()
		require.NoError(t, AddCharge(ctx, order, &provider.Charge{ID: "ch_1", Amount: 3900, Currency: "usd"}))

		require.NoError(t, AcknowledgePayment(ctx, order, true))
		assert.Equal(t, model.OrderStatusPaymentConfirmed, order.Status)
	})

	t.Run("not from created", func(t *testing.T) {
		err := AcknowledgePayment(ctx, createdOrder(), true)
		assert.ErrorIs(t, err, domainErrors.ErrTransitionNotAllowed)
	})
}

func TestAvailableTransitions(t *testing.T) {
	order := createdOrder()
	assert.Equal(t, []string{EventAddCharge}, AvailableTransitions(order, false))

	order.Status = model.OrderStatusChargeCreditCard
	assert.Empty(t, AvailableTransitions(order, true))

	order.Payments = []model.OrderPayment{{Amount: decimal.RequireFromString("39"), Currency: "USD"}}
	assert.Empty(t, AvailableTransitions(order, false))
	assert.Equal(t, []string{EventAcknowledgePayment}, AvailableTransitions(order, true))

	assert.Equal(t, []string{EventCreate}, AvailableTransitions(&model.Order{}, false))
}

func TestFire_UnknownEvent(t *testing.T) {
	err := Fire(context.Background(), createdOrder(), "refund", true, nil)
	assert.Error(t, err)
}
