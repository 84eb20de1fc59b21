package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rfqforge/internal/domain"
	"rfqforge/internal/service"
)

// MockRFQService is a mock implementation of service.RFQService.
type MockRFQService struct {
	mock.Mock
}

func (m *MockRFQService) ParseText(ctx context.Context, input service.ParseTextInput) (*domain.RFQDraft, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RFQDraft), args.Error(1)
}

func (m *MockRFQService) ParseDocument(ctx context.Context, input service.ParseDocumentInput) (*domain.RFQDraft, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RFQDraft), args.Error(1)
}

func (m *MockRFQService) GetDraft(ctx context.Context, id uuid.UUID) (*domain.RFQDraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RFQDraft), args.Error(1)
}

func (m *MockRFQService) GetSourceURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockRFQService) ListDrafts(ctx context.Context, offset, limit int) ([]domain.RFQDraft, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RFQDraft), args.Int(1), args.Error(2)
}

func (m *MockRFQService) ReviewDraft(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRFQService) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
