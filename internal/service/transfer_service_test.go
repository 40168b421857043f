package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestExternalFee(t *testing.T) {
	rate := decimal.New(25, -3) // 2.5%

	cases := []struct {
		amount string
		want   string
	}{
		{"200", "5"},
		{"100", "2.5"},
		{"1000", "25"},
		{"10", "0.25"},
		// half-up rounding at the second decimal
		{"100.20", "2.51"}, // 2.505
		{"10.60", "0.27"},  // 0.265
		{"0.02", "0"},      // 0.0005 rounds down
		{"1.40", "0.04"},   // 0.035
	}

	for _, tc := range cases {
		amount := decimal.RequireFromString(tc.amount)
		got := ExternalFee(amount, rate)
		if got.String() != tc.want {
			t.Errorf("ExternalFee(%s) = %s, want %s", tc.amount, got, tc.want)
		}
	}
}

func TestCommissionFor(t *testing.T) {
	rate := decimal.New(1, -2) // 1%

	cases := []struct {
		deposit string
		want    string
	}{
		{"100", "1"},
		{"50", "0.5"},
		{"55.55", "0.56"}, // 0.5555 rounds half-up
		{"10", "0.1"},
		{"0.40", "0"}, // 0.004 rounds down
	}

	for _, tc := range cases {
		got := CommissionFor(decimal.RequireFromString(tc.deposit), rate)
		if got.String() != tc.want {
			t.Errorf("CommissionFor(%s) = %s, want %s", tc.deposit, got, tc.want)
		}
	}
}
