package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rfqforge/internal/domain"
)

// MockRFQDraftRepo is a mock implementation of port.RFQDraftRepository.
type MockRFQDraftRepo struct {
	mock.Mock
}

func (m *MockRFQDraftRepo) Create(ctx context.Context, draft *domain.RFQDraft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockRFQDraftRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RFQDraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RFQDraft), args.Error(1)
}

func (m *MockRFQDraftRepo) List(ctx context.Context, offset, limit int) ([]domain.RFQDraft, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RFQDraft), args.Int(1), args.Error(2)
}

func (m *MockRFQDraftRepo) MarkReviewed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRFQDraftRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
