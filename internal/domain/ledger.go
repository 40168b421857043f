package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryType names the kind of balance mutation recorded.
type LedgerEntryType string

const (
	EntryTypeDeposit           LedgerEntryType = "deposit"
	EntryTypeWithdrawalHold    LedgerEntryType = "withdrawal_hold"
	EntryTypeWithdrawalRelease LedgerEntryType = "withdrawal_release"
	EntryTypeWithdrawalCapture LedgerEntryType = "withdrawal_capture"
	EntryTypeTransferOut       LedgerEntryType = "transfer_out"
	EntryTypeTransferIn        LedgerEntryType = "transfer_in"
	EntryTypeTransferHold      LedgerEntryType = "transfer_hold"
	EntryTypeTransferRelease   LedgerEntryType = "transfer_release"
	EntryTypeTransferFee       LedgerEntryType = "transfer_fee"
	EntryTypeFeeRevenue        LedgerEntryType = "fee_revenue"
)

// LedgerEntry records one balance or hold mutation on a trading account.
// Every successful adjustment is attributable to exactly one causing entity
// through RefType/RefID (deposit, withdrawal or fund transfer row).
type LedgerEntry struct {
	ID        int64           `db:"id" json:"id"`
	AccountID int64           `db:"account_id" json:"account_id"`
	Type      LedgerEntryType `db:"type" json:"type"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	RefType   string          `db:"ref_type" json:"ref_type"`
	RefID     int64           `db:"ref_id" json:"ref_id"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
