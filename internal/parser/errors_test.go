package parser_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"rfqforge/internal/parser"
)

func TestExternalServiceError_Decommissioned(t *testing.T) {
	decommissioned := &parser.ExternalServiceError{Provider: "groq", Code: "model_decommissioned"}
	assert.True(t, decommissioned.Decommissioned())
	assert.True(t, parser.IsDecommissioned(decommissioned))

	rateLimited := &parser.ExternalServiceError{Provider: "groq", Code: "rate_limit_exceeded"}
	assert.False(t, rateLimited.Decommissioned())
	assert.False(t, parser.IsDecommissioned(rateLimited))

	assert.False(t, parser.IsDecommissioned(errors.New("plain error")))
}

func TestIsDecommissioned_Wrapped(t *testing.T) {
	err := fmt.Errorf("attempt failed: %w", &parser.ExternalServiceError{Code: "model_decommissioned"})
	assert.True(t, parser.IsDecommissioned(err))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"service error", &parser.ExternalServiceError{Provider: "groq", StatusCode: 500}, true},
		{"timeout", &parser.ExternalServiceError{Provider: "groq", Timeout: true}, true},
		{"parsing error", &parser.ParsingError{Message: "unrepairable"}, true},
		{"low confidence", &parser.LowConfidenceError{Threshold: 0.7}, false},
		{"missing credential", &parser.MissingCredentialError{Provider: "groq"}, false},
		{"plain error", errors.New("boom"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, parser.IsRetryable(tt.err))
		})
	}
}

func TestExternalServiceError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &parser.ExternalServiceError{Provider: "groq", Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&parser.MissingCredentialError{Provider: "groq"}).Error(), "groq")

	withField := &parser.ParsingError{Field: "industry", Message: "unsupported"}
	assert.Contains(t, withField.Error(), "industry")

	lowConf := &parser.LowConfidenceError{MaterialConfidence: 0.6, IndustryConfidence: 0.8, Threshold: 0.7}
	assert.Contains(t, lowConf.Error(), "0.70")

	timeout := &parser.ExternalServiceError{Provider: "groq", Timeout: true, Err: errors.New("deadline exceeded")}
	assert.Contains(t, timeout.Error(), "timed out")

	status := &parser.ExternalServiceError{Provider: "groq", StatusCode: 429, Message: "rate limited"}
	assert.Contains(t, status.Error(), "429")
}
