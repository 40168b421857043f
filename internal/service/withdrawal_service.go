package service

import (
	"context"

	"fxportal/internal/domain"
	"fxportal/internal/logger"
	"fxportal/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// WithdrawalRequest is the caller-supplied payout request. Bank fields are
// mandatory when the method is bank transfer.
type WithdrawalRequest struct {
	AccountID         int64  `json:"account_id"`
	Method            string `json:"method"`
	Amount            string `json:"amount"`
	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	AccountHolderName string `json:"account_holder_name"`
	SwiftCode         string `json:"swift_code"`
}

// ValidateWithdrawalRequest checks field presence and amount shape against
// the platform minimum. Pure; no repository access.
func ValidateWithdrawalRequest(req *WithdrawalRequest, minAmount decimal.Decimal) (decimal.Decimal, error) {
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return decimal.Zero, validationErr("amount must be a positive decimal string")
	}
	if amount.LessThan(minAmount) {
		return decimal.Zero, validationErr("minimum withdrawal is $" + minAmount.StringFixed(2))
	}

	switch domain.WithdrawalMethod(req.Method) {
	case domain.WithdrawalMethodBankTransfer:
		if req.BankName == "" || req.AccountNumber == "" || req.AccountHolderName == "" || req.SwiftCode == "" {
			return decimal.Zero, validationErr("bank transfer requires bank name, account number, holder name and SWIFT code")
		}
	case domain.WithdrawalMethodCard, domain.WithdrawalMethodCrypto:
		// no extra fields
	default:
		return decimal.Zero, validationErr("unsupported withdrawal method")
	}

	return amount, nil
}

// WithdrawalService models the payout lifecycle. Funds are reserved at
// request time: the requested amount moves into the account hold, so the
// same funds cannot be withdrawn twice or spent while the request is in
// flight. Rejection releases the hold; completion captures it and the funds
// leave the ledger.
type WithdrawalService struct {
	db             *pgxpool.Pool
	withdrawalRepo *repository.WithdrawalRepository
	accountRepo    *repository.AccountRepository
	ledger         *LedgerService
	verification   *VerificationService
	minAmount      decimal.Decimal
}

func NewWithdrawalService(db *pgxpool.Pool, ledger *LedgerService, verification *VerificationService, minAmount decimal.Decimal) *WithdrawalService {
	return &WithdrawalService{
		db:             db,
		withdrawalRepo: repository.NewWithdrawalRepository(db),
		accountRepo:    repository.NewAccountRepository(db),
		ledger:         ledger,
		verification:   verification,
		minAmount:      minAmount,
	}
}

// Create validates a payout request, places the hold and records the
// pending withdrawal atomically.
func (s *WithdrawalService) Create(ctx context.Context, userID int64, req *WithdrawalRequest) (*domain.Withdrawal, error) {
	amount, err := ValidateWithdrawalRequest(req, s.minAmount)
	if err != nil {
		return nil, err
	}

	if err := s.verification.RequireVerified(ctx, userID); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if account.UserID != userID {
		return nil, ErrUnauthorized
	}
	if !account.Enabled {
		return nil, ErrAccountDisabled
	}
	if account.Type != domain.AccountTypeLive {
		return nil, validationErr("withdrawals are only allowed from live accounts")
	}

	withdrawal := &domain.Withdrawal{
		UserID:            userID,
		TradingAccountID:  req.AccountID,
		Method:            domain.WithdrawalMethod(req.Method),
		Amount:            amount,
		Status:            domain.WithdrawalStatusPending,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		AccountHolderName: req.AccountHolderName,
		SwiftCode:         req.SwiftCode,
	}

	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.withdrawalRepo.CreateWithTx(ctx, tx, withdrawal); err != nil {
		return nil, err
	}

	updated, err := s.ledger.HoldTx(ctx, tx, req.AccountID, amount,
		domain.EntryTypeWithdrawalHold, "withdrawal", withdrawal.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.ledger.Notify(updated)

	logger.Info("withdrawal requested",
		"withdrawal_id", withdrawal.ID, "account_id", req.AccountID,
		"amount", amount.StringFixed(2), "method", req.Method)

	return withdrawal, nil
}

// List returns a user's withdrawals, newest first.
func (s *WithdrawalService) List(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	return s.withdrawalRepo.GetByUserID(ctx, userID, limit)
}

// ListPending returns withdrawals awaiting a decision, for admin review.
func (s *WithdrawalService) ListPending(ctx context.Context) ([]domain.Withdrawal, error) {
	return s.withdrawalRepo.GetPending(ctx)
}

// MarkProcessing moves a pending withdrawal to processing and returns it.
func (s *WithdrawalService) MarkProcessing(ctx context.Context, adminID, id int64) (*domain.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrNotFound
	}

	ok, err := s.withdrawalRepo.MarkProcessing(ctx, id, adminID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStateConflict
	}
	withdrawal.Status = domain.WithdrawalStatusProcessing
	return withdrawal, nil
}

// Complete captures the hold; the funds permanently leave the ledger.
func (s *WithdrawalService) Complete(ctx context.Context, adminID, id int64) (*domain.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrNotFound
	}

	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := s.withdrawalRepo.CompleteWithTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStateConflict
	}

	updated, err := s.ledger.CaptureHoldTx(ctx, tx, withdrawal.TradingAccountID, withdrawal.Amount,
		domain.EntryTypeWithdrawalCapture, "withdrawal", id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.ledger.Notify(updated)

	logger.Info("withdrawal completed",
		"withdrawal_id", id, "admin_id", adminID, "amount", withdrawal.Amount.StringFixed(2))

	return s.withdrawalRepo.GetByID(ctx, id)
}

// Reject releases the hold back to the spendable balance. A reason is
// mandatory and persisted for audit.
func (s *WithdrawalService) Reject(ctx context.Context, adminID, id int64, reason string) (*domain.Withdrawal, error) {
	if reason == "" {
		return nil, validationErr("rejection reason is required")
	}

	withdrawal, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrNotFound
	}

	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := s.withdrawalRepo.RejectWithTx(ctx, tx, id, adminID, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStateConflict
	}

	updated, err := s.ledger.ReleaseHoldTx(ctx, tx, withdrawal.TradingAccountID, withdrawal.Amount,
		domain.EntryTypeWithdrawalRelease, "withdrawal", id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.ledger.Notify(updated)

	logger.Info("withdrawal rejected",
		"withdrawal_id", id, "admin_id", adminID, "reason", reason)

	return s.withdrawalRepo.GetByID(ctx, id)
}
