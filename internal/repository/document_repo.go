package repository

import (
	"context"
	"time"

	"fxportal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DocumentRepository struct {
	db *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, user_id, type, file_name, file_url, status,
       rejection_reason, reviewed_by, created_at, reviewed_at`

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	row := r.db.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

// GetByUserID retrieves all documents uploaded by a user
func (r *DocumentRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Document, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// GetPending retrieves documents awaiting review, oldest first
func (r *DocumentRepository) GetPending(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// Create inserts a new pending document
func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO documents (user_id, type, file_name, file_url, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, d.UserID, d.Type, d.FileName, d.FileURL, d.Status).Scan(&d.ID, &d.CreatedAt)
}

// Verify approves a pending document. Re-approving an already reviewed
// document is a state conflict, enforced by the status predicate.
func (r *DocumentRepository) Verify(ctx context.Context, id, adminID int64) (bool, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE documents SET status = 'verified', reviewed_by = $2, reviewed_at = $3
		WHERE id = $1 AND status = 'pending'
	`, id, adminID, time.Now())
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

// Reject declines a pending document with a mandatory reason.
func (r *DocumentRepository) Reject(ctx context.Context, id, adminID int64, reason string) (bool, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE documents SET status = 'rejected', rejection_reason = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $1 AND status = 'pending'
	`, id, reason, adminID, time.Now())
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	var rejectionReason *string
	var reviewedAt *time.Time

	if err := row.Scan(
		&d.ID, &d.UserID, &d.Type, &d.FileName, &d.FileURL, &d.Status,
		&rejectionReason, &d.ReviewedBy, &d.CreatedAt, &reviewedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if rejectionReason != nil {
		d.RejectionReason = *rejectionReason
	}
	d.ReviewedAt = reviewedAt

	return &d, nil
}

func scanDocuments(rows pgx.Rows) ([]domain.Document, error) {
	var documents []domain.Document

	for rows.Next() {
		var d domain.Document
		var rejectionReason *string
		var reviewedAt *time.Time

		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Type, &d.FileName, &d.FileURL, &d.Status,
			&rejectionReason, &d.ReviewedBy, &d.CreatedAt, &reviewedAt,
		); err != nil {
			return nil, err
		}

		if rejectionReason != nil {
			d.RejectionReason = *rejectionReason
		}
		d.ReviewedAt = reviewedAt

		documents = append(documents, d)
	}

	return documents, rows.Err()
}
