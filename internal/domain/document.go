package domain

import "time"

// DocumentType is the category of identity evidence uploaded by a user.
type DocumentType string

const (
	DocumentTypeIDProof      DocumentType = "id_proof"
	DocumentTypeAddressProof DocumentType = "address_proof"
)

// DocumentStatus represents document review status
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// Document is identity/address evidence uploaded for verification.
type Document struct {
	ID              int64          `db:"id" json:"id"`
	UserID          int64          `db:"user_id" json:"user_id"`
	Type            DocumentType   `db:"type" json:"type"`
	FileName        string         `db:"file_name" json:"file_name"`
	FileURL         string         `db:"file_url" json:"file_url"`
	Status          DocumentStatus `db:"status" json:"status"`
	RejectionReason string         `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ReviewedBy      *int64         `db:"reviewed_by" json:"-"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	ReviewedAt      *time.Time     `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// VerificationStatus is the gate result computed from a user's documents.
type VerificationStatus struct {
	IsVerified    bool `json:"is_verified"`
	VerifiedCount int  `json:"verified_count"`
	RequiredCount int  `json:"required_count"`
	HasPending    bool `json:"has_pending"`
}
