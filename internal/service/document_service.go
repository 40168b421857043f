package service

import (
	"context"
	"strings"

	"fxportal/internal/domain"
	"fxportal/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentService handles verification document submission and review.
type DocumentService struct {
	docs         *repository.DocumentRepository
	verification *VerificationService
}

func NewDocumentService(db *pgxpool.Pool, verification *VerificationService) *DocumentService {
	return &DocumentService{
		docs:         repository.NewDocumentRepository(db),
		verification: verification,
	}
}

// Submit records an uploaded document as pending review.
func (s *DocumentService) Submit(ctx context.Context, userID int64, typ domain.DocumentType, fileName, fileURL string) (*domain.Document, error) {
	switch typ {
	case domain.DocumentTypeIDProof, domain.DocumentTypeAddressProof:
	default:
		return nil, validationErr("invalid document type")
	}
	if strings.TrimSpace(fileName) == "" || strings.TrimSpace(fileURL) == "" {
		return nil, validationErr("file name and url are required")
	}

	doc := &domain.Document{
		UserID:   userID,
		Type:     typ,
		FileName: fileName,
		FileURL:  fileURL,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListMine returns all documents the user has submitted.
func (s *DocumentService) ListMine(ctx context.Context, userID int64) ([]domain.Document, error) {
	return s.docs.GetByUserID(ctx, userID)
}

// ListPending returns documents awaiting admin review.
func (s *DocumentService) ListPending(ctx context.Context) ([]domain.Document, error) {
	return s.docs.GetPending(ctx)
}

// Verify approves a pending document and refreshes the owner's
// verification flag. The owner's id is returned for audit logging.
func (s *DocumentService) Verify(ctx context.Context, adminID, docID int64) (int64, domain.VerificationStatus, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return 0, domain.VerificationStatus{}, err
	}
	if doc == nil {
		return 0, domain.VerificationStatus{}, ErrNotFound
	}

	ok, err := s.docs.Verify(ctx, docID, adminID)
	if err != nil {
		return 0, domain.VerificationStatus{}, err
	}
	if !ok {
		return 0, domain.VerificationStatus{}, ErrStateConflict
	}

	status, err := s.verification.Refresh(ctx, doc.UserID)
	return doc.UserID, status, err
}

// Reject declines a pending document with a mandatory reason. The owner's
// id is returned for audit logging.
func (s *DocumentService) Reject(ctx context.Context, adminID, docID int64, reason string) (int64, error) {
	if strings.TrimSpace(reason) == "" {
		return 0, validationErr("rejection reason is required")
	}

	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return 0, err
	}
	if doc == nil {
		return 0, ErrNotFound
	}

	ok, err := s.docs.Reject(ctx, docID, adminID, reason)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrStateConflict
	}
	return doc.UserID, nil
}
