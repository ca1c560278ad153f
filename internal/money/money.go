package money

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by an Amount.
const Scale = 4

// scalar = 10^Scale
const scalar = 10000

var (
	ErrOverflow      = errors.New("amount overflow")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Amount is a fixed-point monetary value: an integer count of 1/10000 units.
// Ledger arithmetic stays on int64 so repeated additions never accumulate
// floating-point error.
type Amount int64

// Parse converts a decimal string into an Amount, rounding to Scale digits.
// Values that do not fit in the scaled int64 range are rejected.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	scaled := d.Round(Scale).Shift(Scale)
	bi := scaled.BigInt()
	if !bi.IsInt64() {
		return 0, ErrOverflow
	}

	return Amount(bi.Int64()), nil
}

// FromUnits builds an Amount from whole currency units.
func FromUnits(units int64) Amount {
	return Amount(units * scalar)
}

// Decimal returns the exact decimal value of the amount.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String renders the amount with exactly Scale fractional digits.
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// Abs returns the magnitude of the amount.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Add returns a + b, or ErrOverflow if the sum does not fit.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a - b, or ErrOverflow if the difference does not fit.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b == Amount(math.MinInt64) {
		return 0, ErrOverflow
	}
	return a.Add(-b)
}
