package repository

import (
	"context"
	"time"

	"fxportal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, phone, country,
       verified, is_admin, referred_by, referral_status, created_at`

// Create inserts a new user. Username is immutable after this point.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	var referralStatus *string
	if u.ReferralStatus != domain.ReferralStatusNone {
		s := string(u.ReferralStatus)
		referralStatus = &s
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, phone, country, referred_by, referral_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Country, u.ReferredBy, referralStatus).
		Scan(&u.ID, &u.CreatedAt)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// UpdateProfile updates the mutable profile fields only.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, phone = $4, country = $5
		WHERE id = $1
	`, u.ID, u.FirstName, u.LastName, u.Phone, u.Country)
	return err
}

// SetVerified flips the verification flag once required documents are approved.
func (r *UserRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET verified = $2 WHERE id = $1`, id, verified)
	return err
}

// SetReferralStatus moves the referring relationship between pending,
// accepted and rejected. Admin-only at the handler layer.
func (r *UserRepository) SetReferralStatus(ctx context.Context, id int64, status domain.ReferralStatus) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET referral_status = $2
		WHERE id = $1 AND referred_by IS NOT NULL
	`, id, string(status))
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountReferred returns total and per-status counts of users referred by the
// given introducer.
func (r *UserRepository) CountReferred(ctx context.Context, referrerID int64) (total, pending, accepted int, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE referral_status = 'pending'),
		       COUNT(*) FILTER (WHERE referral_status = 'accepted')
		FROM users
		WHERE referred_by = $1
	`, referrerID).Scan(&total, &pending, &accepted)
	return total, pending, accepted, err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var phone, country, referralStatus *string
	var createdAt time.Time

	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&phone, &country, &u.Verified, &u.IsAdmin, &u.ReferredBy, &referralStatus, &createdAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if phone != nil {
		u.Phone = *phone
	}
	if country != nil {
		u.Country = *country
	}
	if referralStatus != nil {
		u.ReferralStatus = domain.ReferralStatus(*referralStatus)
	}
	u.CreatedAt = createdAt

	return &u, nil
}
