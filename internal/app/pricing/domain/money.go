package domain

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with precise decimal arithmetic using big.Rat.
// It stores the value as a rational number (numerator/denominator) to avoid floating-point precision issues.
type Money struct {
	rat *big.Rat
}

// NewMoney creates a new Money instance from numerator and denominator.
// Example: NewMoney(600050, 100) represents ₹6000.50
func NewMoney(numerator, denominator int64) (*Money, error) {
	if denominator == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	if denominator < 0 {
		return nil, fmt.Errorf("denominator must be positive")
	}

	rat := big.NewRat(numerator, denominator)
	return &Money{rat: rat}, nil
}

// NewMoneyFromInt creates a whole-unit Money value.
func NewMoneyFromInt(units int64) *Money {
	return &Money{rat: new(big.Rat).SetInt64(units)}
}

// NewMoneyFromRat creates a new Money instance from a big.Rat.
func NewMoneyFromRat(rat *big.Rat) *Money {
	if rat == nil {
		return ZeroMoney()
	}
	return &Money{rat: new(big.Rat).Set(rat)}
}

// ZeroMoney returns a zero amount.
func ZeroMoney() *Money {
	return &Money{rat: new(big.Rat)}
}

// ParseMoney parses a decimal string such as "6000.50" exactly.
func ParseMoney(s string) (*Money, error) {
	rat, err := ParseRat(s)
	if err != nil {
		return nil, err
	}
	return &Money{rat: rat}, nil
}

// MoneyFromFloat converts a float using its shortest decimal representation,
// so 0.1 becomes 1/10 rather than the nearest binary fraction.
func MoneyFromFloat(f float64) (*Money, error) {
	rat, err := RatFromFloat(f)
	if err != nil {
		return nil, err
	}
	return &Money{rat: rat}, nil
}

// ParseRat parses a decimal string into an exact rational.
func ParseRat(s string) (*big.Rat, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d.Rat(), nil
}

// RatFromFloat converts a finite float into an exact rational via its shortest decimal form.
func RatFromFloat(f float64) (*big.Rat, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, f)
	}
	return decimal.NewFromFloat(f).Rat(), nil
}

// Numerator returns the numerator of the rational number.
func (m *Money) Numerator() int64 {
	return m.rat.Num().Int64()
}

// Denominator returns the denominator of the rational number.
func (m *Money) Denominator() int64 {
	return m.rat.Denom().Int64()
}

// IsSafeForStorage reports whether numerator and denominator both fit in INT64 columns.
func (m *Money) IsSafeForStorage() bool {
	return m.rat.Num().IsInt64() && m.rat.Denom().IsInt64()
}

// Rat returns a copy of the underlying rational.
func (m *Money) Rat() *big.Rat {
	return new(big.Rat).Set(m.rat)
}

// Add adds two Money values and returns a new Money instance.
func (m *Money) Add(other *Money) *Money {
	result := new(big.Rat).Add(m.rat, other.rat)
	return &Money{rat: result}
}

// Subtract subtracts another Money value from this one and returns a new Money instance.
func (m *Money) Subtract(other *Money) *Money {
	result := new(big.Rat).Sub(m.rat, other.rat)
	return &Money{rat: result}
}

// MultiplyByRat multiplies this Money value by a rational number and returns a new Money instance.
func (m *Money) MultiplyByRat(rat *big.Rat) *Money {
	result := new(big.Rat).Mul(m.rat, rat)
	return &Money{rat: result}
}

// IsZero returns true if the money value is zero.
func (m *Money) IsZero() bool {
	return m.rat.Sign() == 0
}

// IsNegative returns true if the money value is negative.
func (m *Money) IsNegative() bool {
	return m.rat.Sign() < 0
}

// Cmp compares two values: -1 if m < other, 0 if equal, +1 if m > other.
func (m *Money) Cmp(other *Money) int {
	return m.rat.Cmp(other.rat)
}

// LessThan returns true if this Money value is less than another.
func (m *Money) LessThan(other *Money) bool {
	return m.rat.Cmp(other.rat) < 0
}

// GreaterThan returns true if this Money value is greater than another.
func (m *Money) GreaterThan(other *Money) bool {
	return m.rat.Cmp(other.rat) > 0
}

// Equals returns true if this Money value equals another.
func (m *Money) Equals(other *Money) bool {
	return m.rat.Cmp(other.rat) == 0
}

// Decimal returns the value rounded half away from zero to the given number of places.
func (m *Money) Decimal(places int32) decimal.Decimal {
	num := decimal.NewFromBigInt(m.rat.Num(), 0)
	den := decimal.NewFromBigInt(m.rat.Denom(), 0)
	return num.DivRound(den, places)
}

// Round returns the value rounded to the nearest whole currency unit.
// Display only: comparisons should use the exact value.
func (m *Money) Round() int64 {
	return m.Decimal(0).IntPart()
}

// String returns a string representation of the money value.
func (m *Money) String() string {
	return m.rat.FloatString(2)
}

// Copy creates a deep copy of this Money instance.
func (m *Money) Copy() *Money {
	return &Money{rat: new(big.Rat).Set(m.rat)}
}
