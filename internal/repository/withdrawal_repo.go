package repository

import (
	"context"
	"time"

	"fxportal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WithdrawalRepository struct {
	db *pgxpool.Pool
}

func NewWithdrawalRepository(db *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

const withdrawalColumns = `id, user_id, trading_account_id, method, amount, status,
       bank_name, account_number, account_holder_name, swift_code,
       rejection_reason, processed_by, created_at, processed_at, completed_at`

// GetByID retrieves withdrawal by ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	row := r.db.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id)
	return scanWithdrawal(row)
}

// GetByUserID retrieves all withdrawals for a user, newest first
func (r *WithdrawalRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// GetPending retrieves withdrawals awaiting admin processing, oldest first
func (r *WithdrawalRepository) GetPending(ctx context.Context) ([]domain.Withdrawal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawals
		WHERE status IN ('pending', 'processing')
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// CreateWithTx creates a withdrawal inside the transaction that places the
// balance hold, so request row and hold commit or roll back together.
func (r *WithdrawalRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	return tx.QueryRow(ctx, `
		INSERT INTO withdrawals (user_id, trading_account_id, method, amount, status,
		                         bank_name, account_number, account_holder_name, swift_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, w.UserID, w.TradingAccountID, w.Method, w.Amount, w.Status,
		w.BankName, w.AccountNumber, w.AccountHolderName, w.SwiftCode).
		Scan(&w.ID, &w.CreatedAt)
}

// MarkProcessing moves a pending withdrawal to processing.
func (r *WithdrawalRepository) MarkProcessing(ctx context.Context, id, adminID int64) (bool, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE withdrawals
		SET status = 'processing', processed_by = $2, processed_at = $3
		WHERE id = $1 AND status = 'pending'
	`, id, adminID, time.Now())
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

// CompleteWithTx marks a withdrawal completed within the transaction that
// captures the hold. Only processing withdrawals can complete.
func (r *WithdrawalRepository) CompleteWithTx(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	result, err := tx.Exec(ctx, `
		UPDATE withdrawals SET status = 'completed', completed_at = $2
		WHERE id = $1 AND status = 'processing'
	`, id, time.Now())
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

// RejectWithTx marks a withdrawal rejected within the transaction that
// releases the hold. A rejection reason is mandatory for audit.
func (r *WithdrawalRepository) RejectWithTx(ctx context.Context, tx pgx.Tx, id, adminID int64, reason string) (bool, error) {
	result, err := tx.Exec(ctx, `
		UPDATE withdrawals
		SET status = 'rejected', rejection_reason = $2, processed_by = $3, processed_at = $4
		WHERE id = $1 AND status IN ('pending', 'processing')
	`, id, reason, adminID, time.Now())
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	var bankName, accountNumber, holderName, swiftCode, rejectionReason *string
	var processedAt, completedAt *time.Time

	if err := row.Scan(
		&w.ID, &w.UserID, &w.TradingAccountID, &w.Method, &w.Amount, &w.Status,
		&bankName, &accountNumber, &holderName, &swiftCode,
		&rejectionReason, &w.ProcessedBy, &w.CreatedAt, &processedAt, &completedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if bankName != nil {
		w.BankName = *bankName
	}
	if accountNumber != nil {
		w.AccountNumber = *accountNumber
	}
	if holderName != nil {
		w.AccountHolderName = *holderName
	}
	if swiftCode != nil {
		w.SwiftCode = *swiftCode
	}
	if rejectionReason != nil {
		w.RejectionReason = *rejectionReason
	}
	w.ProcessedAt = processedAt
	w.CompletedAt = completedAt

	return &w, nil
}

func scanWithdrawals(rows pgx.Rows) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal

	for rows.Next() {
		var w domain.Withdrawal
		var bankName, accountNumber, holderName, swiftCode, rejectionReason *string
		var processedAt, completedAt *time.Time

		if err := rows.Scan(
			&w.ID, &w.UserID, &w.TradingAccountID, &w.Method, &w.Amount, &w.Status,
			&bankName, &accountNumber, &holderName, &swiftCode,
			&rejectionReason, &w.ProcessedBy, &w.CreatedAt, &processedAt, &completedAt,
		); err != nil {
			return nil, err
		}

		if bankName != nil {
			w.BankName = *bankName
		}
		if accountNumber != nil {
			w.AccountNumber = *accountNumber
		}
		if holderName != nil {
			w.AccountHolderName = *holderName
		}
		if swiftCode != nil {
			w.SwiftCode = *swiftCode
		}
		if rejectionReason != nil {
			w.RejectionReason = *rejectionReason
		}
		w.ProcessedAt = processedAt
		w.CompletedAt = completedAt

		withdrawals = append(withdrawals, w)
	}

	return withdrawals, rows.Err()
}
