package kernel

import (
	"fmt"

	"empi/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MinorUnitDigits is the number of decimal places of the smallest currency
// unit (kobo).
const MinorUnitDigits = 2

var half = decimal.New(5, -1)

// Money is an amount in naira, always held at minor unit precision. Every
// constructor and arithmetic result is rounded half-up, so a stored amount
// and a recomputed one never drift apart.
//
// The zero value is a valid zero amount.
type Money struct {
	amount decimal.Decimal
}

// NewMoney rounds d half-up to the minor unit.
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: RoundHalfUp(d)}
}

// MoneyFromInt builds a whole-naira amount.
func MoneyFromInt(naira int64) Money {
	return Money{amount: decimal.NewFromInt(naira)}
}

// MoneyFromString parses a decimal string such as "50000" or "1250.75".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q is not a decimal", s))
	}
	return NewMoney(d), nil
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// RoundHalfUp rounds d to MinorUnitDigits, ties towards positive infinity.
func RoundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Shift(MinorUnitDigits).Add(half).Floor().Shift(-MinorUnitDigits)
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MulInt multiplies by a whole quantity; no rounding is needed.
func (m Money) MulInt(n int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(n))}
}

// MulRate multiplies by an arbitrary rate and rounds the result.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(rate))
}

// Percent returns pct percent of m, rounded.
func (m Money) Percent(pct decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(pct).Div(decimal.NewFromInt(100)))
}

// ClampZero returns m, or zero when m is negative.
func (m Money) ClampZero() Money {
	if m.amount.IsNegative() {
		return ZeroMoney()
	}
	return m
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// Decimal exposes the amount for persistence and wire encoding.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) String() string {
	return m.amount.StringFixed(MinorUnitDigits)
}

// ValidateNonNegative rejects negative amounts where a price is required.
func (m Money) ValidateNonNegative(paramName string) error {
	if m.amount.IsNegative() {
		return errs.NewValueIsOutOfRangeError(paramName, m.String(), "0.00", "unbounded")
	}
	return nil
}
