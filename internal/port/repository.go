package port

import (
	"context"

	"github.com/google/uuid"

	"rfqforge/internal/domain"
)

// RFQDraftRepository defines the contract for parsed RFQ draft persistence.
type RFQDraftRepository interface {
	Create(ctx context.Context, draft *domain.RFQDraft) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RFQDraft, error)
	List(ctx context.Context, offset, limit int) ([]domain.RFQDraft, int, error)
	MarkReviewed(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
