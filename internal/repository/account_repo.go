package repository

import (
	"context"

	"fxportal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, user_id, account_number, type, account_group, leverage,
       balance, hold, equity, margin, free_margin, margin_level, enabled, created_at`

// GetByID retrieves a trading account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.TradingAccount, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM trading_accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// GetByAccountNumber resolves a recipient account number to an account.
func (r *AccountRepository) GetByAccountNumber(ctx context.Context, number string) (*domain.TradingAccount, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM trading_accounts WHERE account_number = $1`, number)
	return scanAccount(row)
}

// GetByUserID retrieves all trading accounts owned by a user
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.TradingAccount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+accountColumns+`
		FROM trading_accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.TradingAccount
	for rows.Next() {
		a, err := scanAccountValues(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// Create creates a new trading account
func (r *AccountRepository) Create(ctx context.Context, a *domain.TradingAccount) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO trading_accounts (user_id, account_number, type, account_group, leverage)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, balance, hold, equity, margin, free_margin, margin_level, enabled, created_at
	`, a.UserID, a.AccountNumber, a.Type, a.Group, a.Leverage).
		Scan(&a.ID, &a.Balance, &a.Hold, &a.Equity, &a.Margin, &a.FreeMargin, &a.MarginLevel, &a.Enabled, &a.CreatedAt)
}

// SetEnabled disables or re-enables an account. Accounts are never deleted.
func (r *AccountRepository) SetEnabled(ctx context.Context, id, userID int64, enabled bool) error {
	result, err := r.db.Exec(ctx, `
		UPDATE trading_accounts SET enabled = $3 WHERE id = $1 AND user_id = $2
	`, id, userID, enabled)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.TradingAccount, error) {
	a, err := scanAccountValues(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func scanAccountValues(row pgx.Row) (*domain.TradingAccount, error) {
	var a domain.TradingAccount
	if err := row.Scan(
		&a.ID, &a.UserID, &a.AccountNumber, &a.Type, &a.Group, &a.Leverage,
		&a.Balance, &a.Hold, &a.Equity, &a.Margin, &a.FreeMargin, &a.MarginLevel,
		&a.Enabled, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
