package service

import (
	"context"

	"fxportal/internal/domain"
	"fxportal/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RequiredDocumentTypes are the document types a user must have verified
// before trading features unlock. Currently ID proof only.
var RequiredDocumentTypes = []domain.DocumentType{domain.DocumentTypeIDProof}

// VerificationService computes whether a user may use trading features,
// based on their approved identity documents. Queried before withdrawal
// creation and before non-demo account creation.
type VerificationService struct {
	docRepo  *repository.DocumentRepository
	userRepo *repository.UserRepository
}

func NewVerificationService(db *pgxpool.Pool) *VerificationService {
	return &VerificationService{
		docRepo:  repository.NewDocumentRepository(db),
		userRepo: repository.NewUserRepository(db),
	}
}

// ComputeStatus derives the gate result from a user's documents. A user is
// verified when every required type has at least one verified document.
func ComputeStatus(docs []domain.Document, required []domain.DocumentType) domain.VerificationStatus {
	verifiedTypes := make(map[domain.DocumentType]bool)
	hasPending := false

	requiredSet := make(map[domain.DocumentType]bool, len(required))
	for _, t := range required {
		requiredSet[t] = true
	}

	for _, d := range docs {
		if !requiredSet[d.Type] {
			continue
		}
		switch d.Status {
		case domain.DocumentStatusVerified:
			verifiedTypes[d.Type] = true
		case domain.DocumentStatusPending:
			hasPending = true
		}
	}

	return domain.VerificationStatus{
		IsVerified:    len(verifiedTypes) >= len(required),
		VerifiedCount: len(verifiedTypes),
		RequiredCount: len(required),
		HasPending:    hasPending,
	}
}

// Status returns the verification gate result for a user.
func (s *VerificationService) Status(ctx context.Context, userID int64) (domain.VerificationStatus, error) {
	docs, err := s.docRepo.GetByUserID(ctx, userID)
	if err != nil {
		return domain.VerificationStatus{}, err
	}
	return ComputeStatus(docs, RequiredDocumentTypes), nil
}

// Refresh recomputes the gate and syncs the user's verified flag. Called
// after a document review decision.
func (s *VerificationService) Refresh(ctx context.Context, userID int64) (domain.VerificationStatus, error) {
	status, err := s.Status(ctx, userID)
	if err != nil {
		return status, err
	}
	if err := s.userRepo.SetVerified(ctx, userID, status.IsVerified); err != nil {
		return status, err
	}
	return status, nil
}

// RequireVerified returns ErrNotVerified unless the user passes the gate.
func (s *VerificationService) RequireVerified(ctx context.Context, userID int64) error {
	status, err := s.Status(ctx, userID)
	if err != nil {
		return err
	}
	if !status.IsVerified {
		return ErrNotVerified
	}
	return nil
}
