package repository

import (
	"context"

	"fxportal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type IBWalletRepository struct {
	db *pgxpool.Pool
}

func NewIBWalletRepository(db *pgxpool.Pool) *IBWalletRepository {
	return &IBWalletRepository{db: db}
}

// GetByUserID retrieves the introducing-broker wallet for a user
func (r *IBWalletRepository) GetByUserID(ctx context.Context, userID int64) (*domain.IBWallet, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, balance, total_commission, commission_rate, created_at
		FROM ib_wallets
		WHERE user_id = $1
	`, userID)

	var w domain.IBWallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.TotalCommission, &w.CommissionRate, &w.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// GetOrCreate returns the user's IB wallet, creating one at the default
// commission rate on first use.
func (r *IBWalletRepository) GetOrCreate(ctx context.Context, userID int64, defaultRate decimal.Decimal) (*domain.IBWallet, error) {
	w, err := r.GetByUserID(ctx, userID)
	if err != nil || w != nil {
		return w, err
	}

	w = &domain.IBWallet{UserID: userID, CommissionRate: defaultRate}
	err = r.db.QueryRow(ctx, `
		INSERT INTO ib_wallets (user_id, commission_rate)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, balance, total_commission, commission_rate, created_at
	`, userID, defaultRate).Scan(&w.ID, &w.Balance, &w.TotalCommission, &w.CommissionRate, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// CreditWithTx accrues commission to a wallet and records the causing event
// within the given transaction.
func (r *IBWalletRepository) CreditWithTx(ctx context.Context, tx pgx.Tx, walletID int64, e *domain.CommissionEvent) error {
	_, err := tx.Exec(ctx, `
		UPDATE ib_wallets
		SET balance = balance + $2, total_commission = total_commission + $2
		WHERE id = $1
	`, walletID, e.Amount)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO commission_events (wallet_id, referred_id, deposit_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, e.WalletID, e.ReferredID, e.DepositID, e.Amount).Scan(&e.ID, &e.CreatedAt)
}

// GetEvents returns recent commission events for a wallet
func (r *IBWalletRepository) GetEvents(ctx context.Context, walletID int64, limit int) ([]domain.CommissionEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, wallet_id, referred_id, deposit_id, amount, created_at
		FROM commission_events
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, walletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.CommissionEvent
	for rows.Next() {
		var e domain.CommissionEvent
		if err := rows.Scan(&e.ID, &e.WalletID, &e.ReferredID, &e.DepositID, &e.Amount, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
