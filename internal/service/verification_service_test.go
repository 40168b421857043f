package service

import (
	"testing"

	"fxportal/internal/domain"
)

func TestComputeStatus(t *testing.T) {
	required := []domain.DocumentType{domain.DocumentTypeIDProof}

	doc := func(typ domain.DocumentType, status domain.DocumentStatus) domain.Document {
		return domain.Document{Type: typ, Status: status}
	}

	cases := []struct {
		name        string
		docs        []domain.Document
		verified    bool
		hasPending  bool
	}{
		{"no documents", nil, false, false},
		{
			"verified id proof",
			[]domain.Document{doc(domain.DocumentTypeIDProof, domain.DocumentStatusVerified)},
			true, false,
		},
		{
			"pending id proof",
			[]domain.Document{doc(domain.DocumentTypeIDProof, domain.DocumentStatusPending)},
			false, true,
		},
		{
			"rejected id proof",
			[]domain.Document{doc(domain.DocumentTypeIDProof, domain.DocumentStatusRejected)},
			false, false,
		},
		{
			"rejected then verified resubmission",
			[]domain.Document{
				doc(domain.DocumentTypeIDProof, domain.DocumentStatusRejected),
				doc(domain.DocumentTypeIDProof, domain.DocumentStatusVerified),
			},
			true, false,
		},
		{
			"verified address proof alone does not satisfy",
			[]domain.Document{doc(domain.DocumentTypeAddressProof, domain.DocumentStatusVerified)},
			false, false,
		},
		{
			"verified plus a pending duplicate stays verified",
			[]domain.Document{
				doc(domain.DocumentTypeIDProof, domain.DocumentStatusVerified),
				doc(domain.DocumentTypeIDProof, domain.DocumentStatusPending),
			},
			true, true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeStatus(tc.docs, required)
			if got.IsVerified != tc.verified {
				t.Errorf("IsVerified = %v, want %v", got.IsVerified, tc.verified)
			}
			if got.HasPending != tc.hasPending {
				t.Errorf("HasPending = %v, want %v", got.HasPending, tc.hasPending)
			}
			if got.RequiredCount != len(required) {
				t.Errorf("RequiredCount = %d, want %d", got.RequiredCount, len(required))
			}
		})
	}
}

func TestComputeStatus_MultipleRequired(t *testing.T) {
	required := []domain.DocumentType{domain.DocumentTypeIDProof, domain.DocumentTypeAddressProof}

	docs := []domain.Document{
		{Type: domain.DocumentTypeIDProof, Status: domain.DocumentStatusVerified},
	}
	got := ComputeStatus(docs, required)
	if got.IsVerified {
		t.Error("one of two required types should not verify the user")
	}
	if got.VerifiedCount != 1 {
		t.Errorf("VerifiedCount = %d, want 1", got.VerifiedCount)
	}

	docs = append(docs, domain.Document{Type: domain.DocumentTypeAddressProof, Status: domain.DocumentStatusVerified})
	if got := ComputeStatus(docs, required); !got.IsVerified {
		t.Error("both required types verified should verify the user")
	}
}
