package repository

import (
	"context"

	"fxportal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerEntryRepository persists the audit trail of balance mutations.
// Entries are only ever written inside the transaction performing the
// mutation, through CreateWithTx.
type LedgerEntryRepository struct {
	db *pgxpool.Pool
}

func NewLedgerEntryRepository(db *pgxpool.Pool) *LedgerEntryRepository {
	return &LedgerEntryRepository{db: db}
}

// CreateWithTx inserts a ledger entry within a transaction
func (r *LedgerEntryRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	return tx.QueryRow(ctx, `
		INSERT INTO ledger_entries (account_id, type, amount, balance, ref_type, ref_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, e.AccountID, e.Type, e.Amount, e.Balance, e.RefType, e.RefID).Scan(&e.ID, &e.CreatedAt)
}

// GetByAccountID returns the most recent entries for an account
func (r *LedgerEntryRepository) GetByAccountID(ctx context.Context, accountID int64, limit int) ([]domain.LedgerEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, type, amount, balance, ref_type, ref_id, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Type, &e.Amount, &e.Balance, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
