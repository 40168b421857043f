package service

import (
	"testing"

	"fxportal/internal/domain"
)

func TestCanTransitionTicket(t *testing.T) {
	cases := []struct {
		from, to domain.TicketStatus
		want     bool
	}{
		{domain.TicketStatusOpen, domain.TicketStatusInProgress, true},
		{domain.TicketStatusOpen, domain.TicketStatusClosed, true},
		{domain.TicketStatusOpen, domain.TicketStatusResolved, false},
		{domain.TicketStatusInProgress, domain.TicketStatusResolved, true},
		{domain.TicketStatusInProgress, domain.TicketStatusClosed, false},
		{domain.TicketStatusInProgress, domain.TicketStatusOpen, false},
		{domain.TicketStatusResolved, domain.TicketStatusClosed, true},
		{domain.TicketStatusResolved, domain.TicketStatusOpen, false},
		{domain.TicketStatusClosed, domain.TicketStatusOpen, false},
		{domain.TicketStatusClosed, domain.TicketStatusInProgress, false},
		{domain.TicketStatusOpen, domain.TicketStatusOpen, false},
	}

	for _, tc := range cases {
		if got := CanTransitionTicket(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionTicket(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTicketAcceptsReplies(t *testing.T) {
	cases := []struct {
		status domain.TicketStatus
		want   bool
	}{
		{domain.TicketStatusOpen, true},
		{domain.TicketStatusInProgress, true},
		{domain.TicketStatusResolved, false},
		{domain.TicketStatusClosed, false},
	}

	for _, tc := range cases {
		if got := TicketAcceptsReplies(tc.status); got != tc.want {
			t.Errorf("TicketAcceptsReplies(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}
