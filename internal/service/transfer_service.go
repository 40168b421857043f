package service

import (
	"context"
	"time"

	"fxportal/internal/domain"
	"fxportal/internal/logger"
	"fxportal/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PlatformAccountNumber identifies the system-owned revenue account that
// retains external transfer fees. Seeded by migration.
const PlatformAccountNumber = "FXP-PLATFORM-REVENUE"

// ExternalFee computes the fee on an external transfer: amount times rate,
// rounded half-up to cents.
func ExternalFee(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

// TransferService moves funds between trading accounts. Internal transfers
// (both accounts owned by the caller) settle immediately with no fee.
// External transfers hold amount+fee on the source until out-of-band OTP
// confirmation; the fee is retained by the platform revenue account.
//
// The balance-sufficiency check and the debit always happen under the same
// row lock, so two racing transfers on one source account serialize: the
// second sees the first's debit (or hold) and fails with insufficient funds
// instead of driving the balance negative.
type TransferService struct {
	db           *pgxpool.Pool
	transferRepo *repository.TransferRepository
	accountRepo  *repository.AccountRepository
	ledger       *LedgerService
	otp          *OTPStore
	feeRate      decimal.Decimal
	otpExpiry    time.Duration
}

func NewTransferService(db *pgxpool.Pool, ledger *LedgerService, otp *OTPStore, feeRate decimal.Decimal, otpExpiry time.Duration) *TransferService {
	return &TransferService{
		db:           db,
		transferRepo: repository.NewTransferRepository(db),
		accountRepo:  repository.NewAccountRepository(db),
		ledger:       ledger,
		otp:          otp,
		feeRate:      feeRate,
		otpExpiry:    otpExpiry,
	}
}

// Internal moves amount between two accounts of the same user. Debit and
// credit commit atomically; the transfer row records completed settlement.
func (s *TransferService) Internal(ctx context.Context, userID, fromID, toID int64, amountStr, notes string) (*domain.FundTransfer, error) {
	amount, err := domain.ParseAmount(amountStr)
	if err != nil {
		return nil, validationErr("amount must be a positive decimal string")
	}
	if fromID == toID {
		return nil, validationErr("source and destination accounts must differ")
	}

	from, to, err := s.loadPair(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if from.UserID != userID || to.UserID != userID {
		return nil, ErrUnauthorized
	}

	now := time.Now()
	transfer := &domain.FundTransfer{
		Reference:     uuid.NewString(),
		UserID:        userID,
		Kind:          domain.TransferKindInternal,
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Fee:           decimal.Zero,
		Status:        domain.TransferStatusCompleted,
		Notes:         notes,
		CompletedAt:   &now,
	}

	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.lockPair(ctx, tx, fromID, toID); err != nil {
		return nil, err
	}

	if err := s.transferRepo.CreateWithTx(ctx, tx, transfer); err != nil {
		return nil, err
	}

	fromAcct, err := s.ledger.DebitTx(ctx, tx, fromID, amount,
		domain.EntryTypeTransferOut, "fund_transfer", transfer.ID)
	if err != nil {
		return nil, err
	}
	toAcct, err := s.ledger.CreditTx(ctx, tx, toID, amount,
		domain.EntryTypeTransferIn, "fund_transfer", transfer.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.ledger.Notify(fromAcct)
	s.ledger.Notify(toAcct)

	logger.Info("internal transfer completed",
		"transfer_id", transfer.ID, "from", fromID, "to", toID,
		"amount", amount.StringFixed(2))

	return transfer, nil
}

// ExternalRequest starts a cross-user transfer: resolves the recipient
// account number, computes the fee, holds amount+fee on the source and
// issues an OTP. Nothing settles until the OTP is confirmed.
func (s *TransferService) ExternalRequest(ctx context.Context, userID, fromID int64, toAccountNumber, amountStr string, otpMethod domain.OTPMethod) (*domain.FundTransfer, error) {
	amount, err := domain.ParseAmount(amountStr)
	if err != nil {
		return nil, validationErr("amount must be a positive decimal string")
	}
	if otpMethod != domain.OTPMethodEmail && otpMethod != domain.OTPMethodSMS {
		return nil, validationErr("otp method must be email or sms")
	}

	from, err := s.accountRepo.GetByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	if from == nil {
		return nil, ErrAccountNotFound
	}
	if from.UserID != userID {
		return nil, ErrUnauthorized
	}
	if !from.Enabled {
		return nil, ErrAccountDisabled
	}

	to, err := s.accountRepo.GetByAccountNumber(ctx, toAccountNumber)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, ErrAccountNotFound
	}
	// External means cross-user: a recipient account of the caller is invalid.
	if to.UserID == userID {
		return nil, ErrInvalidRecipient
	}
	if !to.Enabled || to.Type != domain.AccountTypeLive {
		return nil, ErrInvalidRecipient
	}

	fee := ExternalFee(amount, s.feeRate)

	transfer := &domain.FundTransfer{
		Reference:     uuid.NewString(),
		UserID:        userID,
		Kind:          domain.TransferKindExternal,
		FromAccountID: fromID,
		ToAccountID:   to.ID,
		Amount:        amount,
		Fee:           fee,
		Status:        domain.TransferStatusPending,
		OTPMethod:     otpMethod,
	}

	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.transferRepo.CreateWithTx(ctx, tx, transfer); err != nil {
		return nil, err
	}

	fromAcct, err := s.ledger.HoldTx(ctx, tx, fromID, amount.Add(fee),
		domain.EntryTypeTransferHold, "fund_transfer", transfer.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.ledger.Notify(fromAcct)

	code, err := s.otp.Issue(ctx, transfer.ID)
	if err != nil {
		// Hold stays in place; the expiry sweep releases it if the user
		// never gets a code.
		logger.Error("failed to issue transfer otp", "transfer_id", transfer.ID, "error", err)
		return nil, err
	}

	// Delivery over email/SMS is handled by the notification gateway; the
	// code is only logged at debug level for development setups.
	logger.Debug("transfer otp issued",
		"transfer_id", transfer.ID, "method", otpMethod, "code", code)

	return transfer, nil
}

// ExternalConfirm settles a pending external transfer after OTP success:
// atomically releases the hold, debits amount+fee from the source, credits
// amount to the recipient and the fee to the platform revenue account.
func (s *TransferService) ExternalConfirm(ctx context.Context, userID, transferID int64, code string) (*domain.FundTransfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, ErrNotFound
	}
	if transfer.UserID != userID {
		return nil, ErrUnauthorized
	}
	if transfer.Status != domain.TransferStatusPending || transfer.Kind != domain.TransferKindExternal {
		return nil, ErrStateConflict
	}

	if err := s.otp.Verify(ctx, transferID, code); err != nil {
		if err == ErrOTPExpired {
			// Code gone means the window closed: fail the transfer and
			// release the hold.
			if failErr := s.failPending(ctx, transfer, "otp expired"); failErr != nil {
				return nil, failErr
			}
		}
		return nil, err
	}

	platform, err := s.accountRepo.GetByAccountNumber(ctx, PlatformAccountNumber)
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, ErrAccountNotFound
	}

	total := transfer.Amount.Add(transfer.Fee)

	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.lockPair(ctx, tx, transfer.FromAccountID, transfer.ToAccountID, platform.ID); err != nil {
		return nil, err
	}

	ok, err := s.transferRepo.CompleteWithTx(ctx, tx, transferID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStateConflict
	}

	if _, err := s.ledger.ReleaseHoldTx(ctx, tx, transfer.FromAccountID, total,
		domain.EntryTypeTransferRelease, "fund_transfer", transferID); err != nil {
		return nil, err
	}
	fromAcct, err := s.ledger.DebitTx(ctx, tx, transfer.FromAccountID, total,
		domain.EntryTypeTransferOut, "fund_transfer", transferID)
	if err != nil {
		return nil, err
	}
	toAcct, err := s.ledger.CreditTx(ctx, tx, transfer.ToAccountID, transfer.Amount,
		domain.EntryTypeTransferIn, "fund_transfer", transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Fee.Sign() > 0 {
		if _, err := s.ledger.CreditTx(ctx, tx, platform.ID, transfer.Fee,
			domain.EntryTypeFeeRevenue, "fund_transfer", transferID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// Only now is the code spent. If the commit had failed the code would
	// still be stored and the transfer still confirmable.
	s.otp.Invalidate(ctx, transferID)

	s.ledger.Notify(fromAcct)
	s.ledger.Notify(toAcct)

	logger.Info("external transfer completed",
		"transfer_id", transferID, "from", transfer.FromAccountID, "to", transfer.ToAccountID,
		"amount", transfer.Amount.StringFixed(2), "fee", transfer.Fee.StringFixed(2))

	return s.transferRepo.GetByID(ctx, transferID)
}

// List returns a user's transfers of one kind, newest first.
func (s *TransferService) List(ctx context.Context, userID int64, kind domain.TransferKind, limit int) ([]domain.FundTransfer, error) {
	return s.transferRepo.GetByUserID(ctx, userID, kind, limit)
}

// ExpireStale fails pending external transfers whose OTP window has closed
// and releases their holds. Run periodically from main.
func (s *TransferService) ExpireStale(ctx context.Context) error {
	cutoff := time.Now().Add(-s.otpExpiry)
	stale, err := s.transferRepo.GetExpiredPending(ctx, cutoff)
	if err != nil {
		return err
	}

	for i := range stale {
		t := &stale[i]
		if err := s.failPending(ctx, t, "otp window expired"); err != nil {
			logger.Error("failed to expire transfer", "transfer_id", t.ID, "error", err)
			continue
		}
		s.otp.Invalidate(ctx, t.ID)
		logger.Info("external transfer expired", "transfer_id", t.ID)
	}
	return nil
}

// failPending marks a pending transfer failed and releases its hold.
func (s *TransferService) failPending(ctx context.Context, transfer *domain.FundTransfer, reason string) error {
	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := s.transferRepo.FailWithTx(ctx, tx, transfer.ID, reason)
	if err != nil {
		return err
	}
	if !ok {
		// Lost the race against a concurrent confirm or sweep.
		return nil
	}

	fromAcct, err := s.ledger.ReleaseHoldTx(ctx, tx, transfer.FromAccountID, transfer.Amount.Add(transfer.Fee),
		domain.EntryTypeTransferRelease, "fund_transfer", transfer.ID)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.ledger.Notify(fromAcct)
	return nil
}

// loadPair fetches both accounts without locking, for ownership checks.
func (s *TransferService) loadPair(ctx context.Context, fromID, toID int64) (from, to *domain.TradingAccount, err error) {
	from, err = s.accountRepo.GetByID(ctx, fromID)
	if err != nil {
		return nil, nil, err
	}
	if from == nil {
		return nil, nil, ErrAccountNotFound
	}
	to, err = s.accountRepo.GetByID(ctx, toID)
	if err != nil {
		return nil, nil, err
	}
	if to == nil {
		return nil, nil, ErrAccountNotFound
	}
	if !from.Enabled || !to.Enabled {
		return nil, nil, ErrAccountDisabled
	}
	return from, to, nil
}

// lockPair locks account rows in ascending id order. Consistent ordering
// across all multi-account transactions prevents deadlocks between
// concurrent opposite-direction transfers.
func (s *TransferService) lockPair(ctx context.Context, tx pgx.Tx, ids ...int64) error {
	sorted := append([]int64(nil), ids...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	for _, id := range sorted {
		if _, err := s.ledger.LockTx(ctx, tx, id); err != nil {
			return err
		}
	}
	return nil
}
