// Package money models amounts in a currency and their minor-unit form used by payment providers.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is a decimal amount in an ISO 4217 currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func New(amount decimal.Decimal, code string) Money {
	return Money{Amount: amount, Currency: strings.ToUpper(code)}
}

// Digits reports the number of minor-unit digits of a currency (USD 2, JPY 0, BHD 3).
func Digits(code string) (int, error) {
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return 0, fmt.Errorf("unknown currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale, nil
}

// SubunitFactor is 10^digits of the currency.
func SubunitFactor(code string) (decimal.Decimal, error) {
	digits, err := Digits(code)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(1, int32(digits)), nil
}

// FromMinorUnits converts an integer amount of minor units, as reported by Stripe, to Money.
func FromMinorUnits(minor int64, code string) (Money, error) {
	factor, err := SubunitFactor(code)
	if err != nil {
		return Money{}, err
	}
	return New(decimal.NewFromInt(minor).Div(factor), code), nil
}

// AsInteger returns the amount in minor units, rounded half away from zero.
func (m Money) AsInteger() (int64, error) {
	factor, err := SubunitFactor(m.Currency)
	if err != nil {
		return 0, err
	}
	return m.Amount.Mul(factor).Round(0).IntPart(), nil
}

func (m Money) String() string {
	digits, err := Digits(m.Currency)
	if err != nil {
		return m.Amount.String() + " " + m.Currency
	}
	return m.Amount.StringFixed(int32(digits)) + " " + m.Currency
}
