// Package money provides exact fixed-point monetary amounts.
//
// An Amount is a count of minor units (cents) stored as int64, which keeps
// database columns and balance arithmetic integral. All fractional math
// (parsing, VAT computation) goes through shopspring/decimal and is rounded
// half-up to two decimal places exactly once, at the point a total is
// finalized. Intermediate sums are never rounded.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary amount in minor units (cents).
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

var hundred = decimal.NewFromInt(100)

// Parse converts a decimal string such as "12.34" into an Amount.
// At most two fractional digits are accepted; anything else is an error
// so that client-supplied amounts can never introduce hidden rounding.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.Exponent() < -2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	return FromDecimal(d), nil
}

// FromDecimal converts a decimal value into an Amount, rounding half-up
// to two decimal places. This is the single rounding point for totals.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Round(2).Shift(2).IntPart())
}

// Decimal returns the amount as an exact decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return a + b }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return a - b }

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount { return -a }

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool { return a < 0 }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a == 0 }

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool { return a < b }

// String formats the amount with exactly two decimal places, e.g. "12.34".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// MulQuantity returns quantity * a as an unrounded decimal. Callers finalize
// the result with FromDecimal once per total.
func (a Amount) MulQuantity(quantity decimal.Decimal) decimal.Decimal {
	return a.Decimal().Mul(quantity)
}

// AddPercent returns d * (1 + rate/100) without rounding, for applying a
// percentage (such as a VAT rate) to an intermediate value.
func AddPercent(d decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return d.Mul(decimal.NewFromInt(1).Add(rate.Div(hundred)))
}

// MarshalJSON encodes the amount as a fixed two-decimal string, e.g. "12.34".
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted decimal strings ("12.34") and bare
// JSON numbers (12.34).
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
