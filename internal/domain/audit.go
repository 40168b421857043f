package domain

import "time"

// Audit categories group related actions for review queries.
const (
	AuditCategoryAuth     = "auth"
	AuditCategoryFunds    = "funds"
	AuditCategoryAdmin    = "admin"
	AuditCategorySecurity = "security"
)

// AuditLog records an admin or security relevant action for later review.
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details,omitempty"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
