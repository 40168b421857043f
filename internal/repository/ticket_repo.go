package repository

import (
	"context"

	"fxportal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{db: db}
}

// GetByID retrieves a support ticket by ID
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*domain.SupportTicket, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, subject, message, status, assigned_to, created_at, updated_at
		FROM support_tickets
		WHERE id = $1
	`, id)

	var t domain.SupportTicket
	if err := row.Scan(&t.ID, &t.UserID, &t.Subject, &t.Message, &t.Status, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// GetByUserID retrieves all tickets opened by a user, newest first
func (r *TicketRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.SupportTicket, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, subject, message, status, assigned_to, created_at, updated_at
		FROM support_tickets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.SupportTicket
	for rows.Next() {
		var t domain.SupportTicket
		if err := rows.Scan(&t.ID, &t.UserID, &t.Subject, &t.Message, &t.Status, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Create opens a new ticket
func (r *TicketRepository) Create(ctx context.Context, t *domain.SupportTicket) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO support_tickets (user_id, subject, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, t.UserID, t.Subject, t.Message, t.Status).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// UpdateStatus moves a ticket to the given status. The caller validates the
// transition first; the predicate guards against concurrent updates.
func (r *TicketRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.TicketStatus, assignedTo *int64) (bool, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE support_tickets
		SET status = $3, assigned_to = COALESCE($4, assigned_to), updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, from, to, assignedTo)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

// AddReply appends a reply to a ticket
func (r *TicketRepository) AddReply(ctx context.Context, reply *domain.SupportTicketReply) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO support_ticket_replies (ticket_id, author_id, message, is_admin_reply)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, reply.TicketID, reply.AuthorID, reply.Message, reply.IsAdminReply).Scan(&reply.ID, &reply.CreatedAt)
}

// GetReplies returns all replies of a ticket, oldest first
func (r *TicketRepository) GetReplies(ctx context.Context, ticketID int64) ([]domain.SupportTicketReply, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, ticket_id, author_id, message, is_admin_reply, created_at
		FROM support_ticket_replies
		WHERE ticket_id = $1
		ORDER BY created_at ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []domain.SupportTicketReply
	for rows.Next() {
		var reply domain.SupportTicketReply
		if err := rows.Scan(&reply.ID, &reply.TicketID, &reply.AuthorID, &reply.Message, &reply.IsAdminReply, &reply.CreatedAt); err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}
