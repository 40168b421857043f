package domain

import "time"

type User struct {
	ID             int64          `db:"id" json:"id"`
	Username       string         `db:"username" json:"username"`
	Email          string         `db:"email" json:"email"`
	PasswordHash   string         `db:"password_hash" json:"-"`
	FirstName      string         `db:"first_name" json:"first_name"`
	LastName       string         `db:"last_name" json:"last_name"`
	Phone          string         `db:"phone" json:"phone,omitempty"`
	Country        string         `db:"country" json:"country,omitempty"`
	Verified       bool           `db:"verified" json:"verified"`
	IsAdmin        bool           `db:"is_admin" json:"-"`
	ReferredBy     *int64         `db:"referred_by" json:"referred_by,omitempty"`
	ReferralStatus ReferralStatus `db:"referral_status" json:"referral_status,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// ReferralStatus describes whether the referring relationship has been
// approved by an admin. Commission only accrues while accepted.
type ReferralStatus string

const (
	ReferralStatusNone     ReferralStatus = ""
	ReferralStatusPending  ReferralStatus = "pending"
	ReferralStatusAccepted ReferralStatus = "accepted"
	ReferralStatusRejected ReferralStatus = "rejected"
)
