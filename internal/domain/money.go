package domain

import (
	"bytes"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount as WooCommerce serializes it: usually a quoted
// string ("129.90"), occasionally a bare number. Absent, empty or garbage
// values decode to zero instead of failing, since every aggregation treats
// missing amounts as zero.
type Money struct {
	decimal.Decimal
}

// NewMoney creates a Money from a string, returning zero on parse failure.
func NewMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}
	}
	return Money{d}
}

// MoneyFromDecimal wraps a decimal as Money.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// UnmarshalJSON accepts "12.34", 12.34, "", and null.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		m.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		m.Decimal = decimal.Zero
		return nil
	}
	m.Decimal = d
	return nil
}

// MarshalJSON renders the amount as a quoted decimal string, matching the
// WooCommerce wire format.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Decimal.String() + `"`), nil
}

// AddMoney returns m + other.
func (m Money) AddMoney(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// SubMoney returns m - other.
func (m Money) SubMoney(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}
