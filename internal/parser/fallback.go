package parser

import (
	"context"
	"errors"
	"log"
	"time"

	"rfqforge/internal/config"
	"rfqforge/internal/domain"
	"rfqforge/internal/port"
)

// Cascade drives one extraction call through the ordered model chain:
// primary, then (when the caller opted in) the fallback model, then the
// emergency model if the fallback was decommissioned. Attempts are strictly
// sequential; the chain is a fallback, not a race. It implements
// port.RFQParser.
type Cascade struct {
	client port.CompletionClient
	cfg    *config.ParserConfig
}

// NewCascade creates a Cascade over a completion client and parser config.
func NewCascade(client port.CompletionClient, cfg *config.ParserConfig) *Cascade {
	return &Cascade{client: client, cfg: cfg}
}

func (c *Cascade) ParseRFQ(ctx context.Context, input domain.NormalizedInput, opts port.ParseOptions) (*domain.ParsedRFQ, error) {
	input = Normalize(input)

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = c.cfg.APIKey
	}
	if apiKey == "" {
		return nil, &MissingCredentialError{Provider: "groq"}
	}

	timeout := c.cfg.Timeout()
	if opts.TimeoutMs > 0 {
		timeout = time.Duration(opts.TimeoutMs) * time.Millisecond
	}
	threshold := c.cfg.ConfidenceThreshold
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}

	prompt := BuildExtractionPrompt(input)

	result, err := c.attempt(ctx, c.cfg.PrimaryModel, prompt, apiKey, timeout, threshold)
	if err == nil {
		return enrich(result, c.cfg.PrimaryModel, false), nil
	}
	if !IsRetryable(err) || !opts.UseModelFallback {
		return nil, err
	}

	log.Printf("parser.Cascade: %s failed (%v), falling back to %s", c.cfg.PrimaryModel, err, c.cfg.FallbackModel)
	result, fbErr := c.attempt(ctx, c.cfg.FallbackModel, prompt, apiKey, timeout, threshold)
	if fbErr == nil {
		return enrich(result, c.cfg.FallbackModel, false), nil
	}
	if !IsDecommissioned(fbErr) {
		return nil, fbErr
	}

	log.Printf("parser.Cascade: %s decommissioned, attempting emergency model %s", c.cfg.FallbackModel, c.cfg.EmergencyModel)
	result, emErr := c.attempt(ctx, c.cfg.EmergencyModel, prompt, apiKey, timeout, threshold)
	if emErr == nil {
		return enrich(result, c.cfg.EmergencyModel, true), nil
	}
	// The last meaningful error goes back to the caller unmodified so it can
	// tell configuration problems from service problems from unparseable input.
	return nil, emErr
}

// attempt runs one model through invoke, repair and validation.
func (c *Cascade) attempt(ctx context.Context, model, prompt, apiKey string, timeout time.Duration, threshold float64) (*domain.ParsedRFQ, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := c.client.Complete(callCtx, model, prompt, apiKey)
	if err != nil {
		// Groq returns the rejected generation alongside JSON-validation
		// failures; that text is sometimes salvageable.
		var svcErr *ExternalServiceError
		if errors.As(err, &svcErr) && svcErr.FailedGeneration != "" {
			if candidate, ok := RepairJSON(svcErr.FailedGeneration); ok {
				log.Printf("parser.Cascade: salvaged failed_generation from %s", model)
				return ValidateCandidate(candidate, threshold)
			}
		}
		return nil, err
	}

	candidate, ok := RepairJSON(raw)
	if !ok {
		return nil, &ParsingError{Message: "model response could not be repaired into a JSON object"}
	}
	return ValidateCandidate(candidate, threshold)
}

// enrich stamps provenance onto a validated result.
func enrich(result *domain.ParsedRFQ, model string, emergency bool) *domain.ParsedRFQ {
	if emergency {
		model += " (emergency fallback)"
	}
	result.ModelUsed = model
	result.ParsingVersion = ParsingVersion
	result.Timestamp = time.Now().UTC().Format(time.RFC3339)
	result.IsReviewed = false
	return result
}
