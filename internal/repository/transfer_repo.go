package repository

import (
	"context"
	"time"

	"fxportal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransferRepository struct {
	db *pgxpool.Pool
}

func NewTransferRepository(db *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{db: db}
}

const transferColumns = `id, reference, user_id, kind, from_account_id, to_account_id,
       amount, fee, status, otp_method, notes, failure_reason, created_at, completed_at`

// GetByID retrieves a fund transfer by ID
func (r *TransferRepository) GetByID(ctx context.Context, id int64) (*domain.FundTransfer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+transferColumns+` FROM fund_transfers WHERE id = $1`, id)
	return scanTransfer(row)
}

// GetByUserID retrieves a user's transfers of one kind, newest first
func (r *TransferRepository) GetByUserID(ctx context.Context, userID int64, kind domain.TransferKind, limit int) ([]domain.FundTransfer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transferColumns+`
		FROM fund_transfers
		WHERE user_id = $1 AND ($2 = '' OR kind = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransfers(rows)
}

// GetExpiredPending returns pending external transfers older than the OTP
// window, for the expiry sweep.
func (r *TransferRepository) GetExpiredPending(ctx context.Context, olderThan time.Time) ([]domain.FundTransfer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transferColumns+`
		FROM fund_transfers
		WHERE kind = 'external' AND status = 'pending' AND created_at < $1
		ORDER BY created_at ASC
	`, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransfers(rows)
}

// CreateWithTx inserts a transfer row inside the transaction that settles it
// (internal) or places the hold (external).
func (r *TransferRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, t *domain.FundTransfer) error {
	var otpMethod *string
	if t.OTPMethod != "" {
		s := string(t.OTPMethod)
		otpMethod = &s
	}

	return tx.QueryRow(ctx, `
		INSERT INTO fund_transfers (reference, user_id, kind, from_account_id, to_account_id,
		                            amount, fee, status, otp_method, notes, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, t.Reference, t.UserID, t.Kind, t.FromAccountID, t.ToAccountID,
		t.Amount, t.Fee, t.Status, otpMethod, t.Notes, t.CompletedAt).
		Scan(&t.ID, &t.CreatedAt)
}

// CompleteWithTx settles a pending transfer within the given transaction.
func (r *TransferRepository) CompleteWithTx(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	result, err := tx.Exec(ctx, `
		UPDATE fund_transfers SET status = 'completed', completed_at = $2
		WHERE id = $1 AND status = 'pending'
	`, id, time.Now())
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

// FailWithTx marks a pending transfer failed within the given transaction.
func (r *TransferRepository) FailWithTx(ctx context.Context, tx pgx.Tx, id int64, reason string) (bool, error) {
	result, err := tx.Exec(ctx, `
		UPDATE fund_transfers SET status = 'failed', failure_reason = $2
		WHERE id = $1 AND status = 'pending'
	`, id, reason)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func scanTransfer(row pgx.Row) (*domain.FundTransfer, error) {
	var t domain.FundTransfer
	var otpMethod, notes, failureReason *string
	var completedAt *time.Time

	if err := row.Scan(
		&t.ID, &t.Reference, &t.UserID, &t.Kind, &t.FromAccountID, &t.ToAccountID,
		&t.Amount, &t.Fee, &t.Status, &otpMethod, &notes, &failureReason,
		&t.CreatedAt, &completedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if otpMethod != nil {
		t.OTPMethod = domain.OTPMethod(*otpMethod)
	}
	if notes != nil {
		t.Notes = *notes
	}
	if failureReason != nil {
		t.FailureReason = *failureReason
	}
	t.CompletedAt = completedAt

	return &t, nil
}

func scanTransfers(rows pgx.Rows) ([]domain.FundTransfer, error) {
	var transfers []domain.FundTransfer

	for rows.Next() {
		var t domain.FundTransfer
		var otpMethod, notes, failureReason *string
		var completedAt *time.Time

		if err := rows.Scan(
			&t.ID, &t.Reference, &t.UserID, &t.Kind, &t.FromAccountID, &t.ToAccountID,
			&t.Amount, &t.Fee, &t.Status, &otpMethod, &notes, &failureReason,
			&t.CreatedAt, &completedAt,
		); err != nil {
			return nil, err
		}

		if otpMethod != nil {
			t.OTPMethod = domain.OTPMethod(*otpMethod)
		}
		if notes != nil {
			t.Notes = *notes
		}
		if failureReason != nil {
			t.FailureReason = *failureReason
		}
		t.CompletedAt = completedAt

		transfers = append(transfers, t)
	}

	return transfers, rows.Err()
}
