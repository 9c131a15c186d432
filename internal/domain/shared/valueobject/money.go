package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a value object representing a monetary amount in integer minor
// units (cents). It is immutable - all operations return new Money instances.
// Currency amounts are never stored as floating point.
type Money struct {
	cents int64
}

// NewMoney creates Money from an amount in cents
func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

// Zero returns a zero-value Money
func Zero() Money {
	return Money{}
}

// ParseAmount converts a user-entered decimal string ("85", "85.50") into
// Money, rounding to the nearest cent. The empty string and non-numeric input
// are rejected.
func ParseAmount(s string) (Money, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if trimmed == "" {
		return Money{}, fmt.Errorf("amount cannot be empty")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{cents: d.Shift(2).Round(0).IntPart()}, nil
}

// ParsePositiveAmount parses a decimal string and additionally requires the
// result to be strictly positive. Amount-entry operations (payments, charges,
// fees, credits) all go through this.
func ParsePositiveAmount(s string) (Money, error) {
	m, err := ParseAmount(s)
	if err != nil {
		return Money{}, err
	}
	if m.cents <= 0 {
		return Money{}, fmt.Errorf("amount must be greater than zero")
	}
	return m, nil
}

// Cents returns the amount in integer cents
func (m Money) Cents() int64 {
	return m.cents
}

// Decimal returns the amount as a decimal in major units (dollars)
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.cents, -2)
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub returns a new Money with the difference of both amounts
func (m Money) Sub(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

// Neg returns a new Money with the negated amount
func (m Money) Neg() Money {
	return Money{cents: -m.cents}
}

// Equal returns true if both amounts are equal
func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

// LessThan returns true if this amount is less than the other
func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// GreaterThan returns true if this amount is greater than the other
func (m Money) GreaterThan(other Money) bool {
	return m.cents > other.cents
}

// String formats the amount as a dollar string, e.g. "$85.00" or "-$12.50"
func (m Money) String() string {
	d := m.Decimal()
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// MarshalJSON serializes Money as integer cents
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.cents)
}

// UnmarshalJSON deserializes Money from integer cents
func (m *Money) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &m.cents)
}

// Value implements driver.Valuer for database storage as integer cents
func (m Money) Value() (driver.Value, error) {
	return m.cents, nil
}

// Scan implements sql.Scanner for reading integer cents from the database
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		m.cents = 0
		return nil
	}
	switch v := value.(type) {
	case int64:
		m.cents = v
	case int:
		m.cents = int64(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	return nil
}
