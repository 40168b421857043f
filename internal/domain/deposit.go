package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositStatus represents deposit processing status
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "pending"
	DepositStatusCompleted DepositStatus = "completed"
	DepositStatusFailed    DepositStatus = "failed"
)

// Deposit is an external funding request through a payment provider. The
// account is credited exactly once, on the pending -> completed transition.
type Deposit struct {
	ID               int64           `db:"id" json:"id"`
	UserID           int64           `db:"user_id" json:"user_id"`
	TradingAccountID int64           `db:"trading_account_id" json:"trading_account_id"`
	Merchant         string          `db:"merchant" json:"merchant"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	Status           DepositStatus   `db:"status" json:"status"`
	ProviderID       string          `db:"provider_id" json:"provider_id,omitempty"`
	TransactionID    string          `db:"transaction_id" json:"transaction_id,omitempty"`
	VerificationFile string          `db:"verification_file" json:"verification_file,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	CompletedAt      *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
}
