package service

import (
	"context"
	"testing"

	"fxportal/internal/domain"
)

// Commission must not accrue unless the referral relationship is accepted.
// These cases short-circuit before any wallet lookup, so a zero-value
// service is enough.
func TestPrepareAccrualSkipsUnaccepted(t *testing.T) {
	introducer := int64(7)

	tests := []struct {
		name      string
		depositor *domain.User
	}{
		{"no introducer", &domain.User{ID: 1}},
		{"pending referral", &domain.User{ID: 1, ReferredBy: &introducer, ReferralStatus: domain.ReferralStatusPending}},
		{"rejected referral", &domain.User{ID: 1, ReferredBy: &introducer, ReferralStatus: domain.ReferralStatusRejected}},
		{"accepted status without introducer", &domain.User{ID: 1, ReferralStatus: domain.ReferralStatusAccepted}},
	}

	s := &ReferralService{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet, err := s.PrepareAccrual(context.Background(), tt.depositor)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if wallet != nil {
				t.Fatalf("expected no wallet, got %+v", wallet)
			}
		})
	}
}
