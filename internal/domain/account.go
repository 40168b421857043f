package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes funded live accounts from demo and bonus ones.
// Only live accounts can withdraw.
type AccountType string

const (
	AccountTypeLive  AccountType = "live"
	AccountTypeDemo  AccountType = "demo"
	AccountTypeBonus AccountType = "bonus"
)

// TradingAccount is a single trading account owned by one user. Balance and
// Hold are only ever mutated through the ledger service; Hold is the portion
// of Balance reserved by pending withdrawals and OTP-gated transfers.
type TradingAccount struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	AccountNumber string          `db:"account_number" json:"account_number"`
	Type          AccountType     `db:"type" json:"type"`
	Group         string          `db:"account_group" json:"group"`
	Leverage      int             `db:"leverage" json:"leverage"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	Hold          decimal.Decimal `db:"hold" json:"hold"`
	Equity        decimal.Decimal `db:"equity" json:"equity"`
	Margin        decimal.Decimal `db:"margin" json:"margin"`
	FreeMargin    decimal.Decimal `db:"free_margin" json:"free_margin"`
	MarginLevel   decimal.Decimal `db:"margin_level" json:"margin_level"`
	Enabled       bool            `db:"enabled" json:"enabled"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Spendable is the balance available for debits: total minus held funds.
func (a *TradingAccount) Spendable() decimal.Decimal {
	return a.Balance.Sub(a.Hold)
}
