package service

import (
	"context"

	"fxportal/internal/domain"
	"fxportal/internal/logger"
	"fxportal/internal/payment"
	"fxportal/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DepositService models an external funding request from payment session
// creation through provider-driven completion. Completion is idempotent: the
// pending -> completed transition is a conditional update, so a duplicate
// provider notification can never double-credit the ledger.
type DepositService struct {
	db          *pgxpool.Pool
	depositRepo *repository.DepositRepository
	accountRepo *repository.AccountRepository
	userRepo    *repository.UserRepository
	ledger      *LedgerService
	referrals   *ReferralService
	provider    *payment.Client
	returnURL   string
	minAmount   decimal.Decimal
}

func NewDepositService(db *pgxpool.Pool, ledger *LedgerService, referrals *ReferralService, provider *payment.Client, returnURL string, minAmount decimal.Decimal) *DepositService {
	return &DepositService{
		db:          db,
		depositRepo: repository.NewDepositRepository(db),
		accountRepo: repository.NewAccountRepository(db),
		userRepo:    repository.NewUserRepository(db),
		ledger:      ledger,
		referrals:   referrals,
		provider:    provider,
		returnURL:   returnURL,
		minAmount:   minAmount,
	}
}

// CreateIntentResult is returned to the caller for checkout redirection.
type CreateIntentResult struct {
	Deposit     *domain.Deposit `json:"deposit"`
	RedirectURL string          `json:"redirect_url"`
}

// CreateIntent validates the request, opens a provider payment session and
// records a pending deposit. No ledger mutation happens here.
func (s *DepositService) CreateIntent(ctx context.Context, userID, accountID int64, method, amountStr string) (*CreateIntentResult, error) {
	amount, err := domain.ParseAmount(amountStr)
	if err != nil {
		return nil, validationErr("amount must be a positive decimal string")
	}
	if amount.LessThan(s.minAmount) {
		return nil, validationErr("minimum deposit is $" + s.minAmount.StringFixed(2))
	}
	if method == "" {
		return nil, validationErr("payment method is required")
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
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
		return nil, validationErr("deposits are only accepted on live accounts")
	}

	deposit := &domain.Deposit{
		UserID:           userID,
		TradingAccountID: accountID,
		Merchant:         method,
		Amount:           amount,
		Status:           domain.DepositStatusPending,
	}

	intent, err := s.provider.CreateIntent(ctx, &payment.CreateIntentRequest{
		Amount:    amount.StringFixed(2),
		Currency:  "USD",
		Method:    method,
		Reference: account.AccountNumber,
		ReturnURL: s.returnURL,
	})
	if err != nil {
		return nil, err
	}

	deposit.ProviderID = intent.ID
	if err := s.depositRepo.Create(ctx, deposit); err != nil {
		return nil, err
	}

	logger.Info("deposit intent created",
		"deposit_id", deposit.ID, "user_id", userID, "amount", amount.StringFixed(2))

	return &CreateIntentResult{Deposit: deposit, RedirectURL: intent.RedirectURL}, nil
}

// Complete applies a provider "payment succeeded" notification. The account
// is credited exactly once; replays return ErrDuplicateTransaction without
// touching the ledger. Referral commission accrues in the same transaction.
func (s *DepositService) Complete(ctx context.Context, providerID, transactionID string) (*domain.Deposit, error) {
	deposit, err := s.depositRepo.GetByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, ErrNotFound
	}

	depositor, err := s.userRepo.GetByID(ctx, deposit.UserID)
	if err != nil {
		return nil, err
	}
	if depositor == nil {
		return nil, ErrUserNotFound
	}

	ibWallet, err := s.referrals.PrepareAccrual(ctx, depositor)
	if err != nil {
		return nil, err
	}

	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	completed, err := s.depositRepo.CompleteWithTx(ctx, tx, deposit.ID, transactionID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, ErrDuplicateTransaction
	}

	account, err := s.ledger.CreditTx(ctx, tx, deposit.TradingAccountID, deposit.Amount,
		domain.EntryTypeDeposit, "deposit", deposit.ID)
	if err != nil {
		return nil, err
	}

	if ibWallet != nil {
		commission, err := s.referrals.AccrueTx(ctx, tx, ibWallet, deposit)
		if err != nil {
			return nil, err
		}
		if commission.Sign() > 0 {
			logger.Info("referral commission accrued",
				"introducer_id", ibWallet.UserID, "deposit_id", deposit.ID,
				"commission", commission.StringFixed(2))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.ledger.Notify(account)
	deposit.Status = domain.DepositStatusCompleted
	deposit.TransactionID = transactionID

	logger.Info("deposit completed",
		"deposit_id", deposit.ID, "account_id", deposit.TradingAccountID,
		"amount", deposit.Amount.StringFixed(2))

	return deposit, nil
}

// Fail applies a provider "payment failed" notification. Terminal and
// ledger-neutral; replays after completion are rejected.
func (s *DepositService) Fail(ctx context.Context, providerID string) error {
	deposit, err := s.depositRepo.GetByProviderID(ctx, providerID)
	if err != nil {
		return err
	}
	if deposit == nil {
		return ErrNotFound
	}

	failed, err := s.depositRepo.Fail(ctx, deposit.ID)
	if err != nil {
		return err
	}
	if !failed {
		return ErrStateConflict
	}

	logger.Warn("deposit failed", "deposit_id", deposit.ID, "provider_id", providerID)
	return nil
}

// List returns a user's deposits, newest first.
func (s *DepositService) List(ctx context.Context, userID int64, limit int) ([]domain.Deposit, error) {
	return s.depositRepo.GetByUserID(ctx, userID, limit)
}

// PaymentStatus polls the provider for a session's state and settles the
// deposit when the provider reports a terminal state. Lets the return-URL
// page resolve without waiting for the webhook.
func (s *DepositService) PaymentStatus(ctx context.Context, userID int64, providerID string) (*domain.Deposit, error) {
	deposit, err := s.depositRepo.GetByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, ErrNotFound
	}
	if deposit.UserID != userID {
		return nil, ErrUnauthorized
	}

	if deposit.Status != domain.DepositStatusPending {
		return deposit, nil
	}

	intent, err := s.provider.GetIntent(ctx, providerID)
	if err != nil {
		// Provider unreachable: report our current state.
		return deposit, nil
	}

	switch intent.Status {
	case payment.IntentStatusSucceeded:
		settled, err := s.Complete(ctx, providerID, intent.TransactionID)
		if err == ErrDuplicateTransaction {
			return s.depositRepo.GetByProviderID(ctx, providerID)
		}
		if err != nil {
			return nil, err
		}
		return settled, nil
	case payment.IntentStatusFailed, payment.IntentStatusExpired:
		if err := s.Fail(ctx, providerID); err != nil && err != ErrStateConflict {
			return nil, err
		}
		return s.depositRepo.GetByProviderID(ctx, providerID)
	}

	return deposit, nil
}
