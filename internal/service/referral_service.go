package service

import (
	"context"

	"fxportal/internal/domain"
	"fxportal/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ReferralService tracks introducing-broker relationships and accrues
// commission on referred users' completed deposits. Commission fires only
// while the relationship is accepted; pending and rejected referrals earn
// nothing, which keeps self-referral abuse behind an admin gate.
type ReferralService struct {
	db          *pgxpool.Pool
	userRepo    *repository.UserRepository
	walletRepo  *repository.IBWalletRepository
	defaultRate decimal.Decimal
}

func NewReferralService(db *pgxpool.Pool, defaultRate decimal.Decimal) *ReferralService {
	return &ReferralService{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		walletRepo:  repository.NewIBWalletRepository(db),
		defaultRate: defaultRate,
	}
}

// CommissionFor computes the commission on a deposit amount, rounded
// half-up to cents.
func CommissionFor(depositAmount, rate decimal.Decimal) decimal.Decimal {
	return depositAmount.Mul(rate).Round(2)
}

// PrepareAccrual resolves the introducer wallet for a depositing user, or
// nil when no accepted referral exists. Runs outside the deposit completion
// transaction; the wallet upsert is idempotent.
func (s *ReferralService) PrepareAccrual(ctx context.Context, depositor *domain.User) (*domain.IBWallet, error) {
	if depositor.ReferredBy == nil || depositor.ReferralStatus != domain.ReferralStatusAccepted {
		return nil, nil
	}
	return s.walletRepo.GetOrCreate(ctx, *depositor.ReferredBy, s.defaultRate)
}

// AccrueTx credits commission for a completed deposit within the same
// transaction that credits the account, so both land or neither does.
func (s *ReferralService) AccrueTx(ctx context.Context, tx pgx.Tx, wallet *domain.IBWallet, deposit *domain.Deposit) (decimal.Decimal, error) {
	commission := CommissionFor(deposit.Amount, wallet.CommissionRate)
	if commission.Sign() <= 0 {
		return decimal.Zero, nil
	}

	event := &domain.CommissionEvent{
		WalletID:   wallet.ID,
		ReferredID: deposit.UserID,
		DepositID:  deposit.ID,
		Amount:     commission,
	}
	if err := s.walletRepo.CreditWithTx(ctx, tx, wallet.ID, event); err != nil {
		return decimal.Zero, err
	}
	return commission, nil
}

// Stats returns the referral summary for an introducing broker.
func (s *ReferralService) Stats(ctx context.Context, userID int64) (*domain.IBStats, error) {
	wallet, err := s.walletRepo.GetOrCreate(ctx, userID, s.defaultRate)
	if err != nil {
		return nil, err
	}

	total, pending, accepted, err := s.userRepo.CountReferred(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.IBStats{
		Wallet:          wallet,
		ReferredTotal:   total,
		ReferredPending: pending,
		ReferredActive:  accepted,
	}, nil
}

// Events returns recent commission events for the user's IB wallet.
func (s *ReferralService) Events(ctx context.Context, userID int64, limit int) ([]domain.CommissionEvent, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil || wallet == nil {
		return nil, err
	}
	return s.walletRepo.GetEvents(ctx, wallet.ID, limit)
}

// SetStatus moves a referral relationship between pending, accepted and
// rejected. Admin-only; exposed through the admin routes.
func (s *ReferralService) SetStatus(ctx context.Context, referredUserID int64, status domain.ReferralStatus) error {
	if status != domain.ReferralStatusAccepted && status != domain.ReferralStatusRejected {
		return validationErr("status must be accepted or rejected")
	}
	if err := s.userRepo.SetReferralStatus(ctx, referredUserID, status); err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
