package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus represents withdrawal processing status
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusRejected   WithdrawalStatus = "rejected"
)

// WithdrawalMethod is the payout channel requested by the user.
type WithdrawalMethod string

const (
	WithdrawalMethodBankTransfer WithdrawalMethod = "bank_transfer"
	WithdrawalMethodCard         WithdrawalMethod = "card"
	WithdrawalMethodCrypto       WithdrawalMethod = "crypto"
)

// Withdrawal is a payout request. The requested amount is held on the account
// at creation time; rejection releases the hold, completion captures it.
type Withdrawal struct {
	ID                int64            `db:"id" json:"id"`
	UserID            int64            `db:"user_id" json:"user_id"`
	TradingAccountID  int64            `db:"trading_account_id" json:"trading_account_id"`
	Method            WithdrawalMethod `db:"method" json:"method"`
	Amount            decimal.Decimal  `db:"amount" json:"amount"`
	Status            WithdrawalStatus `db:"status" json:"status"`
	BankName          string           `db:"bank_name" json:"bank_name,omitempty"`
	AccountNumber     string           `db:"account_number" json:"account_number,omitempty"`
	AccountHolderName string           `db:"account_holder_name" json:"account_holder_name,omitempty"`
	SwiftCode         string           `db:"swift_code" json:"swift_code,omitempty"`
	RejectionReason   string           `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ProcessedBy       *int64           `db:"processed_by" json:"-"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	ProcessedAt       *time.Time       `db:"processed_at" json:"processed_at,omitempty"`
	CompletedAt       *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
}
