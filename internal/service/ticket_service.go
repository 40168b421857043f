package service

import (
	"context"

	"fxportal/internal/domain"
	"fxportal/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ticketTransitions enumerates the allowed status moves:
// open -> in_progress -> resolved -> closed, plus direct open -> closed.
var ticketTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed},
}

// CanTransitionTicket reports whether a ticket may move between statuses.
func CanTransitionTicket(from, to domain.TicketStatus) bool {
	for _, allowed := range ticketTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TicketAcceptsReplies reports whether replies may still be appended.
func TicketAcceptsReplies(status domain.TicketStatus) bool {
	return status == domain.TicketStatusOpen || status == domain.TicketStatusInProgress
}

// TicketService runs the support ticket status machine. No monetary
// invariants; optimistic status checks are enough.
type TicketService struct {
	ticketRepo *repository.TicketRepository
}

func NewTicketService(db *pgxpool.Pool) *TicketService {
	return &TicketService{ticketRepo: repository.NewTicketRepository(db)}
}

// Create opens a new ticket.
func (s *TicketService) Create(ctx context.Context, userID int64, subject, message string) (*domain.SupportTicket, error) {
	if subject == "" || message == "" {
		return nil, validationErr("subject and message are required")
	}

	ticket := &domain.SupportTicket{
		UserID:  userID,
		Subject: subject,
		Message: message,
		Status:  domain.TicketStatusOpen,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// List returns the caller's tickets.
func (s *TicketService) List(ctx context.Context, userID int64) ([]domain.SupportTicket, error) {
	return s.ticketRepo.GetByUserID(ctx, userID)
}

// Get returns one ticket with its replies, enforcing ownership for
// non-admin callers.
func (s *TicketService) Get(ctx context.Context, userID int64, isAdmin bool, ticketID int64) (*domain.SupportTicket, []domain.SupportTicketReply, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if ticket == nil {
		return nil, nil, ErrNotFound
	}
	if !isAdmin && ticket.UserID != userID {
		return nil, nil, ErrUnauthorized
	}

	replies, err := s.ticketRepo.GetReplies(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, replies, nil
}

// Reply appends a message. Admin replies on an open ticket move it to
// in_progress, marking it as being worked.
func (s *TicketService) Reply(ctx context.Context, userID int64, isAdmin bool, ticketID int64, message string) (*domain.SupportTicketReply, error) {
	if message == "" {
		return nil, validationErr("message is required")
	}

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrNotFound
	}
	if !isAdmin && ticket.UserID != userID {
		return nil, ErrUnauthorized
	}
	if !TicketAcceptsReplies(ticket.Status) {
		return nil, ErrStateConflict
	}

	reply := &domain.SupportTicketReply{
		TicketID:     ticketID,
		AuthorID:     userID,
		Message:      message,
		IsAdminReply: isAdmin,
	}
	if err := s.ticketRepo.AddReply(ctx, reply); err != nil {
		return nil, err
	}

	if isAdmin && ticket.Status == domain.TicketStatusOpen {
		_, _ = s.ticketRepo.UpdateStatus(ctx, ticketID, domain.TicketStatusOpen, domain.TicketStatusInProgress, &userID)
	}

	return reply, nil
}

// SetStatus moves a ticket along the status machine.
func (s *TicketService) SetStatus(ctx context.Context, actorID int64, isAdmin bool, ticketID int64, to domain.TicketStatus) error {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket == nil {
		return ErrNotFound
	}
	if !isAdmin && ticket.UserID != actorID {
		return ErrUnauthorized
	}
	if !CanTransitionTicket(ticket.Status, to) {
		return ErrStateConflict
	}

	var assigned *int64
	if isAdmin {
		assigned = &actorID
	}

	ok, err := s.ticketRepo.UpdateStatus(ctx, ticketID, ticket.Status, to, assigned)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStateConflict
	}
	return nil
}
