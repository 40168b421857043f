package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateWithdrawalRequest(t *testing.T) {
	min := decimal.NewFromInt(10)

	bankReq := func(amount string) *WithdrawalRequest {
		return &WithdrawalRequest{
			AccountID:         1,
			Method:            "bank_transfer",
			Amount:            amount,
			BankName:          "First National",
			AccountNumber:     "12345678",
			AccountHolderName: "Jane Doe",
			SwiftCode:         "FNBKUS33",
		}
	}

	cases := []struct {
		name    string
		req     *WithdrawalRequest
		want    string
		wantErr bool
	}{
		{"valid bank transfer", bankReq("100.00"), "100", false},
		{"exactly the minimum", bankReq("10"), "10", false},
		{"below minimum", bankReq("9.99"), "", true},
		{"zero amount", bankReq("0"), "", true},
		{"negative amount", bankReq("-50"), "", true},
		{"three decimal places", bankReq("10.005"), "", true},
		{"empty amount", bankReq(""), "", true},
		{"unknown method", &WithdrawalRequest{Method: "paypal", Amount: "100"}, "", true},
		{"card needs no bank fields", &WithdrawalRequest{Method: "card", Amount: "25"}, "25", false},
		{"crypto needs no bank fields", &WithdrawalRequest{Method: "crypto", Amount: "25"}, "25", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateWithdrawalRequest(tc.req, min)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got amount %s", got)
				}
				if _, ok := err.(*ValidationError); !ok {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tc.want {
				t.Errorf("amount = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestValidateWithdrawalRequest_BankFields(t *testing.T) {
	min := decimal.NewFromInt(10)

	base := WithdrawalRequest{
		Method:            "bank_transfer",
		Amount:            "100",
		BankName:          "First National",
		AccountNumber:     "12345678",
		AccountHolderName: "Jane Doe",
		SwiftCode:         "FNBKUS33",
	}

	clear := []struct {
		name  string
		strip func(*WithdrawalRequest)
	}{
		{"bank name", func(r *WithdrawalRequest) { r.BankName = "" }},
		{"account number", func(r *WithdrawalRequest) { r.AccountNumber = "" }},
		{"holder name", func(r *WithdrawalRequest) { r.AccountHolderName = "" }},
		{"swift code", func(r *WithdrawalRequest) { r.SwiftCode = "" }},
	}

	for _, tc := range clear {
		t.Run("missing "+tc.name, func(t *testing.T) {
			req := base
			tc.strip(&req)
			if _, err := ValidateWithdrawalRequest(&req, min); err == nil {
				t.Fatal("expected error for missing bank field")
			}
		})
	}
}
