package domain

import "time"

// TicketStatus represents support ticket status
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// SupportTicket is a user/operator exchange. Replies are append-only and
// allowed only while the ticket is open or in progress.
type SupportTicket struct {
	ID         int64        `db:"id" json:"id"`
	UserID     int64        `db:"user_id" json:"user_id"`
	Subject    string       `db:"subject" json:"subject"`
	Message    string       `db:"message" json:"message"`
	Status     TicketStatus `db:"status" json:"status"`
	AssignedTo *int64       `db:"assigned_to" json:"assigned_to,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

type SupportTicketReply struct {
	ID           int64     `db:"id" json:"id"`
	TicketID     int64     `db:"ticket_id" json:"ticket_id"`
	AuthorID     int64     `db:"author_id" json:"author_id"`
	Message      string    `db:"message" json:"message"`
	IsAdminReply bool      `db:"is_admin_reply" json:"is_admin_reply"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
