package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/wekeepgrowing/shop-stripe/internal/config"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/provider"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordedRequest struct {
	Method string
	Path   string
	Form   url.Values
}

type fakeStripe struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request, form url.Values)
}

func (f *fakeStripe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	form, _ := url.ParseQuery(string(body))

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Form: form})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	f.handler(w, r, form)
}

func newTestProvider(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, form url.Values)) (*StripeProvider, *fakeStripe) {
	t.Helper()
	fake := &fakeStripe{handler: handler}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	p := NewStripeProvider(config.StripeConfig{
		APIKey:     "sk_test_123",
		BackendURL: server.URL,
	}, zap.NewNop())
	return p, fake
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCreateCharge(t *testing.T) {
	p, fake := newTestProvider(t, func(w http.ResponseWriter, r *http.Request, form url.Values) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":       "ch_123",
			"object":   "charge",
			"amount":   3900,
			"currency": "usd",
			"status":   "succeeded",
			"paid":     true,
		})
	})

	charge, err := p.CreateCharge(context.Background(), &provider.ChargeRequest{
		Amount:      3900,
		Currency:    "USD",
		Source:      "tok_visa",
		Description: "Purchase at Example Shop",
		Metadata:    map[string]string{"order_number": "20261019-0000ABCD"},
	})
	require.NoError(t, err)

	assert.Equal(t, "ch_123", charge.ID)
	assert.Equal(t, int64(3900), charge.Amount)
	assert.True(t, charge.Succeeded())

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v1/charges", req.Path)
	assert.Equal(t, "3900", req.Form.Get("amount"))
	assert.Equal(t, "usd", req.Form.Get("currency"))
	assert.Equal(t, "tok_visa", req.Form.Get("source"))
	assert.Equal(t, "Purchase at Example Shop", req.Form.Get("description"))
	assert.Equal(t, "20261019-0000ABCD", req.Form.Get("metadata[order_number]"))
}

func TestCreateCharge_CardDeclined(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request, form url.Values) {
		writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error": map[string]interface{}{
				"type":    "card_error",
				"code":    "card_declined",
				"message": "Your card was declined.",
			},
		})
	})

	_, err := p.CreateCharge(context.Background(), &provider.ChargeRequest{Amount: 100, Currency: "usd", Source: "tok_chargeDeclined"})
	require.Error(t, err)

	var providerErr *provider.ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, provider.ErrCodeCardDeclined, providerErr.Code)
	assert.Equal(t, "Your card was declined.", providerErr.Message)
}

func TestCreateCustomerAndSubscription(t *testing.T) {
	p, fake := newTestProvider(t, func(w http.ResponseWriter, r *http.Request, form url.Values) {
		switch r.URL.Path {
		case "/v1/customers":
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": "cus_1", "object": "customer", "email": form.Get("email")})
		case "/v1/subscriptions":
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": "sub_1", "object": "subscription", "status": "active"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": map[string]interface{}{"type": "invalid_request_error", "message": "not found"}})
		}
	})
	ctx := context.Background()

	cus, err := p.CreateCustomer(ctx, &provider.CustomerRequest{
		Email:    "ada@example.com",
		Name:     "Ada Lovelace",
		Metadata: map[string]string{"user_id": "42"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cus_1", cus.ID)
	assert.Equal(t, "ada@example.com", cus.Email)

	sub, err := p.CreateSubscription(ctx, &provider.SubscriptionRequest{CustomerID: cus.ID, PriceID: "price_gold"})
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "active", sub.Status)

	require.Len(t, fake.requests, 2)
	assert.Equal(t, "Ada Lovelace", fake.requests[0].Form.Get("name"))
	assert.Equal(t, "42", fake.requests[0].Form.Get("metadata[user_id]"))
	assert.Equal(t, "cus_1", fake.requests[1].Form.Get("customer"))
	assert.Equal(t, "price_gold", fake.requests[1].Form.Get("items[0][price]"))
}

func TestGetPrice(t *testing.T) {
	p, fake := newTestProvider(t, func(w http.ResponseWriter, r *http.Request, form url.Values) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":          "price_gold",
			"object":      "price",
			"active":      true,
			"currency":    "usd",
			"unit_amount": 990,
			"recurring":   map[string]interface{}{"interval": "month"},
		})
	})

	price, err := p.GetPrice(context.Background(), "price_gold")
	require.NoError(t, err)
	assert.True(t, price.Active)
	assert.Equal(t, "month", price.Interval)
	assert.Equal(t, int64(990), price.UnitAmount)
	assert.Equal(t, "/v1/prices/price_gold", fake.requests[0].Path)
}

func TestCheckAPIVersion(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	assert.True(t, CheckAPIVersion("", logger))
	assert.True(t, CheckAPIVersion(stripeapi.APIVersion, logger))
	assert.Equal(t, 0, logs.Len())

	assert.False(t, CheckAPIVersion("2015-01-01", logger))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "2015-01-01", logs.All()[0].ContextMap()["configured"])
}

func TestGetProviderName(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request, form url.Values) {})
	assert.Equal(t, "stripe", p.GetProviderName())
}
