// Package money implements fixed-point decimal arithmetic for monetary
// values. Amounts are persisted as strings with exactly two fractional
// digits and are never represented as binary floats.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalid    = errors.New("invalid decimal value")
	ErrTooPrecise = errors.New("more than 2 decimal digits")
	ErrNegative   = errors.New("negative value not allowed")
)

// Zero is the canonical zero amount.
const Zero = "0.00"

// Parse parses a decimal string.
func Parse(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, ErrInvalid
	}
	return value, nil
}

// ParseAmount parses a monetary input from the wire. Values carrying more
// than two fractional digits are rejected rather than silently rounded.
func ParseAmount(raw string) (decimal.Decimal, error) {
	value, err := Parse(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if value.Exponent() < -2 && !value.Equal(value.Round(2)) {
		return decimal.Decimal{}, ErrTooPrecise
	}
	return value, nil
}

// ParseNonNegative parses a monetary input and rejects negative values.
func ParseNonNegative(raw string) (decimal.Decimal, error) {
	value, err := ParseAmount(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if value.IsNegative() {
		return decimal.Decimal{}, ErrNegative
	}
	return value, nil
}

// Format renders a decimal with exactly two fractional digits.
func Format(value decimal.Decimal) string {
	return value.StringFixed(2)
}

// Reformat normalizes a stored or aggregated decimal string to the
// canonical two-digit form. Empty input yields "0.00".
func Reformat(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return Zero, nil
	}
	value, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return Format(value), nil
}

// LineAmount computes quantity * rate rounded to two digits.
func LineAmount(quantity, rate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(rate).Round(2)
}

// Tax computes subtotal * rate / 100 rounded to two digits.
func Tax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}

// Sum adds values and rounds the result to two digits.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, value := range values {
		total = total.Add(value)
	}
	return total.Round(2)
}
