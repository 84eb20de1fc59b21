package port

import (
	"context"

	"rfqforge/internal/domain"
)

// ParseOptions carries per-call overrides for one extraction.
type ParseOptions struct {
	// APIKey overrides the configured provider credential when non-empty.
	APIKey string
	// TimeoutMs bounds each individual model call; 0 means the configured default.
	TimeoutMs int
	// UseModelFallback enables the secondary (and emergency) model cascade.
	UseModelFallback bool
}

// RFQParser abstracts LLM-based RFQ extraction.
type RFQParser interface {
	ParseRFQ(ctx context.Context, input domain.NormalizedInput, opts ParseOptions) (*domain.ParsedRFQ, error)
}

// CompletionClient abstracts a single completion request against one named model.
// The returned string is the raw assistant message content, not yet guaranteed
// to be valid JSON.
type CompletionClient interface {
	Complete(ctx context.Context, model, prompt, apiKey string) (string, error)
}
