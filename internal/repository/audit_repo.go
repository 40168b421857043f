package repository

import (
	"context"
	"encoding/json"

	"fxportal/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_logs (user_id, action, category, details, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, log.UserID, log.Action, log.Category, detailsJSON, log.IP, log.UserAgent)
	return err
}

// GetByCategory returns recent audit logs of one category
func (r *AuditRepository) GetByCategory(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, action, category, details, ip, user_agent, created_at
		FROM audit_logs
		WHERE category = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		var detailsJSON []byte
		var ip, userAgent *string

		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Category, &detailsJSON, &ip, &userAgent, &l.CreatedAt); err != nil {
			return nil, err
		}

		if len(detailsJSON) > 0 {
			_ = json.Unmarshal(detailsJSON, &l.Details)
		}
		if ip != nil {
			l.IP = *ip
		}
		if userAgent != nil {
			l.UserAgent = *userAgent
		}

		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
