package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrBadAmount = errors.New("amount must be a positive decimal with at most 2 decimal places")
)

// ParseAmount parses a monetary amount transmitted as a decimal string.
// Amounts are fixed-point USD values: positive, at most two decimal places.
// Binary floating point is never involved.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrBadAmount
	}
	if d.Sign() <= 0 || d.Exponent() < -2 {
		return decimal.Zero, ErrBadAmount
	}
	return d, nil
}
