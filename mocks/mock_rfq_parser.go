package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rfqforge/internal/domain"
	"rfqforge/internal/port"
)

// MockRFQParser is a mock implementation of port.RFQParser.
type MockRFQParser struct {
	mock.Mock
}

func (m *MockRFQParser) ParseRFQ(ctx context.Context, input domain.NormalizedInput, opts port.ParseOptions) (*domain.ParsedRFQ, error) {
	args := m.Called(ctx, input, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedRFQ), args.Error(1)
}
