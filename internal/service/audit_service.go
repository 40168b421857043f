package service

import (
	"context"

	"fxportal/internal/domain"
	"fxportal/internal/logger"
	"fxportal/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditService handles audit logging
type AuditService struct {
	repo *repository.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(db *pgxpool.Pool) *AuditService {
	return &AuditService{
		repo: repository.NewAuditRepository(db),
	}
}

// Log creates a new audit log entry. Failures are logged, never surfaced:
// an audit write must not fail the action it records.
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]interface{}) {
	log := &domain.AuditLog{
		UserID:   userID,
		Action:   action,
		Category: category,
		Details:  details,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogWithRequest creates an audit log with request info (IP, User-Agent)
func (s *AuditService) LogWithRequest(ctx context.Context, userID int64, action, category, ip, userAgent string, details map[string]interface{}) {
	log := &domain.AuditLog{
		UserID:    userID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogAdmin logs an admin back-office action against another user's record.
func (s *AuditService) LogAdmin(ctx context.Context, adminID int64, action string, targetID int64, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["target_user_id"] = targetID
	s.Log(ctx, adminID, action, domain.AuditCategoryAdmin, details)
}

// Recent returns the newest audit entries in one category.
func (s *AuditService) Recent(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.GetByCategory(ctx, category, limit)
}
