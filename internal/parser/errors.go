package parser

import (
	"errors"
	"fmt"
)

// codeModelDecommissioned is the provider error code emitted when a requested
// model has been retired and will never come back.
const codeModelDecommissioned = "model_decommissioned"

// MissingCredentialError indicates no API key was available for the provider.
// It is fatal: a different model will not fix a misconfiguration.
type MissingCredentialError struct {
	Provider string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ParsingError indicates the repaired model output is structurally invalid:
// a required field is missing, has the wrong primitive type, or carries an
// unsupported industry value. Field names the offending field when known.
type ParsingError struct {
	Field   string
	Message string
}

func (e *ParsingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid rfq extraction (%s): %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid rfq extraction: %s", e.Message)
}

// LowConfidenceError indicates the extraction validated structurally but one
// or both confidence scores fell below the threshold. It carries the full
// candidate so review workflows can show what the model produced. Terminal:
// low confidence is a property of the input's ambiguity, not of the model.
type LowConfidenceError struct {
	Candidate          map[string]any
	MaterialConfidence float64
	IndustryConfidence float64
	Threshold          float64
}

func (e *LowConfidenceError) Error() string {
	return fmt.Sprintf("extraction confidence below threshold %.2f (material %.2f, industry %.2f)",
		e.Threshold, e.MaterialConfidence, e.IndustryConfidence)
}

// ExternalServiceError indicates the provider call failed at the transport or
// HTTP layer. Code and FailedGeneration carry the provider's structured error
// body when it was parseable.
type ExternalServiceError struct {
	Provider         string
	StatusCode       int
	Code             string
	Message          string
	FailedGeneration string
	Timeout          bool
	Err              error
}

func (e *ExternalServiceError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s request timed out: %v", e.Provider, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// Decommissioned reports whether the provider signalled that the requested
// model has been retired.
func (e *ExternalServiceError) Decommissioned() bool {
	return e.Code == codeModelDecommissioned
}

// IsDecommissioned reports whether err carries a model-decommissioned signal.
// Classification happens here, once, rather than being re-parsed at each
// fallback tier.
func IsDecommissioned(err error) bool {
	var svcErr *ExternalServiceError
	return errors.As(err, &svcErr) && svcErr.Decommissioned()
}

// IsRetryable reports whether a failed attempt may be retried against a
// different model. Low confidence and missing credentials are terminal;
// everything else (timeouts, service errors, unrepairable output) is fair
// game for the fallback chain.
func IsRetryable(err error) bool {
	var lowConf *LowConfidenceError
	if errors.As(err, &lowConf) {
		return false
	}
	var missing *MissingCredentialError
	return !errors.As(err, &missing)
}
