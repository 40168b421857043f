package service

import (
	"context"
	"errors"

	"fxportal/internal/domain"
	"fxportal/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AccountNotifier receives balance snapshots after a ledger mutation commits.
// Wired to the websocket hub in main; nil disables push.
type AccountNotifier interface {
	AccountUpdated(userID int64, account *domain.TradingAccount)
}

// LedgerService is the single choke point for every balance and hold
// mutation on trading accounts. All helpers run inside a caller-provided
// pgx transaction, lock the account row with SELECT ... FOR UPDATE, perform
// decimal arithmetic in Go and record a ledger entry naming the causing
// entity. Balance non-negativity holds by construction: debits and holds are
// checked against the spendable balance under the row lock.
type LedgerService struct {
	db        *pgxpool.Pool
	entryRepo *repository.LedgerEntryRepository
	notifier  AccountNotifier
}

func NewLedgerService(db *pgxpool.Pool) *LedgerService {
	return &LedgerService{
		db:        db,
		entryRepo: repository.NewLedgerEntryRepository(db),
	}
}

// SetNotifier attaches a push channel for account updates.
func (s *LedgerService) SetNotifier(n AccountNotifier) {
	s.notifier = n
}

// Notify publishes an account snapshot to subscribers. Call after commit.
func (s *LedgerService) Notify(account *domain.TradingAccount) {
	if s.notifier != nil && account != nil {
		s.notifier.AccountUpdated(account.UserID, account)
	}
}

// Begin starts a ledger transaction.
func (s *LedgerService) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.db.BeginTx(ctx, pgx.TxOptions{})
}

// GetBalance returns the current balance and hold of an account.
func (s *LedgerService) GetBalance(ctx context.Context, accountID int64) (balance, hold decimal.Decimal, err error) {
	err = s.db.QueryRow(ctx, `
		SELECT balance, hold FROM trading_accounts WHERE id = $1
	`, accountID).Scan(&balance, &hold)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrAccountNotFound
	}
	return balance, hold, err
}

// LockTx locks an account row for the rest of the transaction and returns
// its current state. Callers moving funds between two accounts must lock
// both in ascending id order before mutating either, to avoid deadlocks.
func (s *LedgerService) LockTx(ctx context.Context, tx pgx.Tx, accountID int64) (*domain.TradingAccount, error) {
	var a domain.TradingAccount
	err := tx.QueryRow(ctx, `
		SELECT id, user_id, account_number, type, account_group, leverage,
		       balance, hold, equity, margin, free_margin, margin_level, enabled, created_at
		FROM trading_accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID).Scan(
		&a.ID, &a.UserID, &a.AccountNumber, &a.Type, &a.Group, &a.Leverage,
		&a.Balance, &a.Hold, &a.Equity, &a.Margin, &a.FreeMargin, &a.MarginLevel,
		&a.Enabled, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// CreditTx adds amount to the account balance.
func (s *LedgerService) CreditTx(ctx context.Context, tx pgx.Tx, accountID int64, amount decimal.Decimal, typ domain.LedgerEntryType, refType string, refID int64) (*domain.TradingAccount, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	a, err := s.LockTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	a.Balance = a.Balance.Add(amount)
	return s.applyTx(ctx, tx, a, typ, amount, refType, refID)
}

// DebitTx removes amount from the spendable balance, rejecting any debit
// that would drive the balance below held funds.
func (s *LedgerService) DebitTx(ctx context.Context, tx pgx.Tx, accountID int64, amount decimal.Decimal, typ domain.LedgerEntryType, refType string, refID int64) (*domain.TradingAccount, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	a, err := s.LockTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if a.Spendable().LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	return s.applyTx(ctx, tx, a, typ, amount.Neg(), refType, refID)
}

// HoldTx reserves amount out of the spendable balance.
func (s *LedgerService) HoldTx(ctx context.Context, tx pgx.Tx, accountID int64, amount decimal.Decimal, typ domain.LedgerEntryType, refType string, refID int64) (*domain.TradingAccount, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	a, err := s.LockTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if a.Spendable().LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	a.Hold = a.Hold.Add(amount)
	return s.applyTx(ctx, tx, a, typ, amount.Neg(), refType, refID)
}

// ReleaseHoldTx returns a reserved amount to the spendable balance.
func (s *LedgerService) ReleaseHoldTx(ctx context.Context, tx pgx.Tx, accountID int64, amount decimal.Decimal, typ domain.LedgerEntryType, refType string, refID int64) (*domain.TradingAccount, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	a, err := s.LockTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if a.Hold.LessThan(amount) {
		return nil, ErrStateConflict
	}

	a.Hold = a.Hold.Sub(amount)
	return s.applyTx(ctx, tx, a, typ, amount, refType, refID)
}

// CaptureHoldTx settles a reservation: the held amount leaves the ledger.
func (s *LedgerService) CaptureHoldTx(ctx context.Context, tx pgx.Tx, accountID int64, amount decimal.Decimal, typ domain.LedgerEntryType, refType string, refID int64) (*domain.TradingAccount, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	a, err := s.LockTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if a.Hold.LessThan(amount) || a.Balance.LessThan(amount) {
		return nil, ErrStateConflict
	}

	a.Hold = a.Hold.Sub(amount)
	a.Balance = a.Balance.Sub(amount)
	return s.applyTx(ctx, tx, a, typ, amount.Neg(), refType, refID)
}

func (s *LedgerService) applyTx(ctx context.Context, tx pgx.Tx, a *domain.TradingAccount, typ domain.LedgerEntryType, amount decimal.Decimal, refType string, refID int64) (*domain.TradingAccount, error) {
	_, err := tx.Exec(ctx, `
		UPDATE trading_accounts SET balance = $2, hold = $3 WHERE id = $1
	`, a.ID, a.Balance, a.Hold)
	if err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		AccountID: a.ID,
		Type:      typ,
		Amount:    amount,
		Balance:   a.Balance,
		RefType:   refType,
		RefID:     refID,
	}
	if err := s.entryRepo.CreateWithTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	return a, nil
}
