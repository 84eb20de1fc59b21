package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCompletionClient is a mock implementation of port.CompletionClient.
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, model, prompt, apiKey string) (string, error) {
	args := m.Called(ctx, model, prompt, apiKey)
	return args.String(0), args.Error(1)
}
