package service

import (
	"context"
	"strings"

	"fxportal/internal/domain"
	"fxportal/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var accountLeverages = map[int]bool{50: true, 100: true, 200: true, 500: true}

// NewAccountNumber derives a short public account number from a random uuid.
func NewAccountNumber() string {
	u := uuid.New()
	return "FXP-" + strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[:10])
}

// AccountService manages trading account lifecycle. Balances are never
// touched here; that is the ledger's job.
type AccountService struct {
	accounts     *repository.AccountRepository
	verification *VerificationService
}

func NewAccountService(db *pgxpool.Pool, verification *VerificationService) *AccountService {
	return &AccountService{
		accounts:     repository.NewAccountRepository(db),
		verification: verification,
	}
}

// Create opens a new trading account. Demo accounts are open to everyone;
// live and bonus accounts require a verified user.
func (s *AccountService) Create(ctx context.Context, userID int64, typ domain.AccountType, group string, leverage int) (*domain.TradingAccount, error) {
	switch typ {
	case domain.AccountTypeLive, domain.AccountTypeDemo, domain.AccountTypeBonus:
	default:
		return nil, validationErr("invalid account type")
	}
	if !accountLeverages[leverage] {
		return nil, validationErr("leverage must be one of 50, 100, 200, 500")
	}
	if group == "" {
		group = "standard"
	}

	if typ != domain.AccountTypeDemo {
		if err := s.verification.RequireVerified(ctx, userID); err != nil {
			return nil, err
		}
	}

	account := &domain.TradingAccount{
		UserID:        userID,
		AccountNumber: NewAccountNumber(),
		Type:          typ,
		Group:         group,
		Leverage:      leverage,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// List returns all of the user's trading accounts.
func (s *AccountService) List(ctx context.Context, userID int64) ([]domain.TradingAccount, error) {
	return s.accounts.GetByUserID(ctx, userID)
}

// Get returns one account, enforcing ownership.
func (s *AccountService) Get(ctx context.Context, userID, accountID int64) (*domain.TradingAccount, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.UserID != userID {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// SetEnabled disables or re-enables an account. Disabled accounts refuse
// deposits, withdrawals and transfers but keep their history.
func (s *AccountService) SetEnabled(ctx context.Context, userID, accountID int64, enabled bool) error {
	err := s.accounts.SetEnabled(ctx, accountID, userID, enabled)
	if err == pgx.ErrNoRows {
		return ErrAccountNotFound
	}
	return err
}
