package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubunitFactor(t *testing.T) {
	tests := []struct {
		code   string
		factor int64
	}{
		{"USD", 100},
		{"eur", 100},
		{"JPY", 1},
		{"KRW", 1},
		{"BHD", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			factor, err := SubunitFactor(tt.code)
			require.NoError(t, err)
			assert.True(t, factor.Equal(decimal.NewFromInt(tt.factor)), "got %s", factor)
		})
	}
}

func TestSubunitFactor_UnknownCurrency(t *testing.T) {
	_, err := SubunitFactor("XYZQ")
	assert.Error(t, err)
}

func TestAsInteger(t *testing.T) {
	m := New(decimal.RequireFromString("12.34"), "usd")
	minor, err := m.AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), minor)
	assert.Equal(t, "USD", m.Currency)

	yen := New(decimal.NewFromInt(500), "JPY")
	minor, err = yen.AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(500), minor)
}

func TestFromMinorUnits(t *testing.T) {
	m, err := FromMinorUnits(1999, "usd")
	require.NoError(t, err)
	assert.True(t, m.Amount.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, "USD", m.Currency)
	assert.Equal(t, "19.99 USD", m.String())

	m, err = FromMinorUnits(1500, "BHD")
	require.NoError(t, err)
	assert.True(t, m.Amount.Equal(decimal.RequireFromString("1.5")))
}
