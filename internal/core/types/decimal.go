// Package types provides the money and quantity primitives shared by every domain.
package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, the way the web client sends them.
	decimal.MarshalJSONWithoutQuotes = true
}

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Quantity is a stock or line quantity. Fractional quantities are allowed.
type Quantity = decimal.Decimal

// MoneyScale is the number of fractional digits kept for stored amounts.
const MoneyScale = 2

// NewMoney creates a Money value from a float.
// WARNING: Use MustMoney or NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Round rounds an amount to MoneyScale digits, half away from zero.
func Round(m Money) Money {
	return m.Round(MoneyScale)
}

// NonNegative clamps v at zero.
func NonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// Sum adds values left to right.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Lenient is a decimal that decodes from any JSON scalar and never fails:
// numbers and numeric strings parse, booleans become 1 or 0, and anything
// else (empty strings, words, objects, null) becomes 0.
type Lenient decimal.Decimal

// Decimal returns the decoded value.
func (l Lenient) Decimal() decimal.Decimal {
	return decimal.Decimal(l)
}

// MarshalJSON encodes the value as a JSON number.
func (l Lenient) MarshalJSON() ([]byte, error) {
	return decimal.Decimal(l).MarshalJSON()
}

// UnmarshalJSON implements the coercion rules described on Lenient.
func (l *Lenient) UnmarshalJSON(data []byte) error {
	*l = Lenient(Coerce(data))
	return nil
}

// Coerce converts a raw JSON token into a decimal following the Lenient rules.
func Coerce(data []byte) decimal.Decimal {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return decimal.Zero
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return decimal.Zero
		}
		return parseOrZero(s)
	case 't':
		if bytes.Equal(data, []byte("true")) {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	case 'f', 'n', '{', '[':
		return decimal.Zero
	default:
		return parseOrZero(string(data))
	}
}

func parseOrZero(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
