package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IBWallet accumulates commission for a user acting as an introducing broker.
type IBWallet struct {
	ID              int64           `db:"id" json:"id"`
	UserID          int64           `db:"user_id" json:"user_id"`
	Balance         decimal.Decimal `db:"balance" json:"balance"`
	TotalCommission decimal.Decimal `db:"total_commission" json:"total_commission"`
	CommissionRate  decimal.Decimal `db:"commission_rate" json:"commission_rate"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// CommissionEvent records one commission accrual on a referred user's deposit.
type CommissionEvent struct {
	ID         int64           `db:"id" json:"id"`
	WalletID   int64           `db:"wallet_id" json:"wallet_id"`
	ReferredID int64           `db:"referred_id" json:"referred_id"`
	DepositID  int64           `db:"deposit_id" json:"deposit_id"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// IBStats is the referral summary returned to an introducing broker.
type IBStats struct {
	Wallet          *IBWallet `json:"wallet"`
	ReferredTotal   int       `json:"referred_total"`
	ReferredPending int       `json:"referred_pending"`
	ReferredActive  int       `json:"referred_active"`
}
