package repository

import (
	"context"
	"time"

	"fxportal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DepositRepository struct {
	db *pgxpool.Pool
}

func NewDepositRepository(db *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{db: db}
}

const depositColumns = `id, user_id, trading_account_id, merchant, amount, status,
       provider_id, transaction_id, verification_file, created_at, completed_at`

// GetByID retrieves deposit by ID
func (r *DepositRepository) GetByID(ctx context.Context, id int64) (*domain.Deposit, error) {
	row := r.db.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1`, id)
	return scanDeposit(row)
}

// GetByProviderID retrieves a deposit by the payment provider's session id.
func (r *DepositRepository) GetByProviderID(ctx context.Context, providerID string) (*domain.Deposit, error) {
	row := r.db.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposits WHERE provider_id = $1`, providerID)
	return scanDeposit(row)
}

// GetByUserID retrieves all deposits for a user, newest first
func (r *DepositRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Deposit, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+depositColumns+`
		FROM deposits
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeposits(rows)
}

// Create creates a new pending deposit record
func (r *DepositRepository) Create(ctx context.Context, d *domain.Deposit) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO deposits (user_id, trading_account_id, merchant, amount, status, provider_id, verification_file)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, d.UserID, d.TradingAccountID, d.Merchant, d.Amount, d.Status, d.ProviderID, d.VerificationFile).
		Scan(&d.ID, &d.CreatedAt)
}

// CompleteWithTx transitions a deposit pending -> completed within the given
// transaction. Returns false when the deposit was not pending, which is how a
// duplicate provider notification is detected: the conditional update makes
// the credit exactly-once.
func (r *DepositRepository) CompleteWithTx(ctx context.Context, tx pgx.Tx, id int64, transactionID string) (bool, error) {
	result, err := tx.Exec(ctx, `
		UPDATE deposits
		SET status = 'completed', transaction_id = $2, completed_at = $3
		WHERE id = $1 AND status = 'pending'
	`, id, transactionID, time.Now())
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

// Fail marks a pending deposit as failed. Terminal, no ledger effect.
func (r *DepositRepository) Fail(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE deposits SET status = 'failed' WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var d domain.Deposit
	var providerID, transactionID, verificationFile *string
	var completedAt *time.Time

	if err := row.Scan(
		&d.ID, &d.UserID, &d.TradingAccountID, &d.Merchant, &d.Amount, &d.Status,
		&providerID, &transactionID, &verificationFile, &d.CreatedAt, &completedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if providerID != nil {
		d.ProviderID = *providerID
	}
	if transactionID != nil {
		d.TransactionID = *transactionID
	}
	if verificationFile != nil {
		d.VerificationFile = *verificationFile
	}
	d.CompletedAt = completedAt

	return &d, nil
}

func scanDeposits(rows pgx.Rows) ([]domain.Deposit, error) {
	var deposits []domain.Deposit

	for rows.Next() {
		var d domain.Deposit
		var providerID, transactionID, verificationFile *string
		var completedAt *time.Time

		if err := rows.Scan(
			&d.ID, &d.UserID, &d.TradingAccountID, &d.Merchant, &d.Amount, &d.Status,
			&providerID, &transactionID, &verificationFile, &d.CreatedAt, &completedAt,
		); err != nil {
			return nil, err
		}

		if providerID != nil {
			d.ProviderID = *providerID
		}
		if transactionID != nil {
			d.TransactionID = *transactionID
		}
		if verificationFile != nil {
			d.VerificationFile = *verificationFile
		}
		d.CompletedAt = completedAt

		deposits = append(deposits, d)
	}

	return deposits, rows.Err()
}
