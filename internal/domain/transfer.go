package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferKind distinguishes transfers between a user's own accounts from
// transfers to another user's account.
type TransferKind string

const (
	TransferKindInternal TransferKind = "internal"
	TransferKindExternal TransferKind = "external"
)

// TransferStatus represents fund transfer processing status
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusFailed    TransferStatus = "failed"
)

// OTPMethod is the out-of-band channel used to confirm an external transfer.
type OTPMethod string

const (
	OTPMethodEmail OTPMethod = "email"
	OTPMethodSMS   OTPMethod = "sms"
)

// FundTransfer moves Amount from one trading account to another. Internal
// transfers carry no fee and settle immediately; external transfers hold
// Amount+Fee on the source account until OTP confirmation, and the fee is
// retained by the platform revenue account.
type FundTransfer struct {
	ID            int64           `db:"id" json:"id"`
	Reference     string          `db:"reference" json:"reference"`
	UserID        int64           `db:"user_id" json:"user_id"`
	Kind          TransferKind    `db:"kind" json:"kind"`
	FromAccountID int64           `db:"from_account_id" json:"from_account_id"`
	ToAccountID   int64           `db:"to_account_id" json:"to_account_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Fee           decimal.Decimal `db:"fee" json:"fee"`
	Status        TransferStatus  `db:"status" json:"status"`
	OTPMethod     OTPMethod       `db:"otp_method" json:"otp_method,omitempty"`
	Notes         string          `db:"notes" json:"notes,omitempty"`
	FailureReason string          `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	CompletedAt   *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
}
