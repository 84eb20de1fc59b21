package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"rfqforge/internal/config"
	"rfqforge/internal/parser"
)

const apiURL = "https://api.groq.com/openai/v1/chat/completions"

// systemRole anchors the model before the task prompt. Keeping it fixed and
// minimal leaves all task instructions to the prompt builder.
const systemRole = "You are a precise manufacturing data extraction engine. You respond with a single JSON object and nothing else."

// Client issues completion requests against the Groq OpenAI-compatible chat
// completions API. It implements port.CompletionClient. The model name is a
// per-call argument so one client serves the whole fallback cascade.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	maxTokens   int
	temperature float64
	topP        float64
}

// NewClient creates a Groq completion client from the parser config.
func NewClient(cfg *config.ParserConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	return newClient(cfg, endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom endpoint (for testing).
func NewClientWithEndpoint(cfg *config.ParserConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.ParserConfig, endpoint string) *Client {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	temperature := cfg.Temperature
	if temperature <= 0 || temperature > 0.1 {
		// Structured output wants near-deterministic sampling.
		temperature = 0.1
	}
	topP := cfg.TopP
	if topP <= 0 || topP > 1 {
		topP = 1.0
	}
	return &Client{
		endpoint: endpoint,
		// Cancellation comes from the caller's context; the http.Client itself
		// carries no timeout so per-call deadlines stay in one place.
		httpClient:  &http.Client{},
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
	}
}

// Complete issues one completion request for the given model and returns the
// raw assistant message content. No JSON handling happens here; repair and
// validation live one layer up.
func (c *Client) Complete(ctx context.Context, model, prompt, apiKey string) (string, error) {
	if apiKey == "" {
		return "", &parser.MissingCredentialError{Provider: "groq"}
	}

	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]interface{}{
			{"role": "system", "content": systemRole},
			{"role": "user", "content": prompt},
		},
		"temperature":           c.temperature,
		"max_completion_tokens": c.maxTokens,
		"top_p":                 c.topP,
		"response_format":       map[string]interface{}{"type": "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &parser.ExternalServiceError{
				Provider: "groq",
				Message:  "request exceeded deadline",
				Timeout:  true,
				Err:      err,
			}
		}
		return "", &parser.ExternalServiceError{Provider: "groq", Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &parser.ExternalServiceError{Provider: "groq", Message: "reading response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", serviceError(resp.StatusCode, respBody)
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", &parser.ExternalServiceError{
			Provider:   "groq",
			StatusCode: resp.StatusCode,
			Message:    "malformed response envelope",
			Err:        err,
		}
	}
	if len(envelope.Choices) == 0 {
		return "", &parser.ExternalServiceError{
			Provider:   "groq",
			StatusCode: resp.StatusCode,
			Message:    "empty response: no choices",
		}
	}

	return envelope.Choices[0].Message.Content, nil
}

// apiResponse models the Groq chat completions success envelope.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// serviceError builds an ExternalServiceError from a non-2xx response,
// plucking the structured provider error body where parseable. The error code
// is what lets the cascade detect a decommissioned model; failed_generation is
// the provider's rejected output, which the repair engine may still salvage.
func serviceError(status int, body []byte) *parser.ExternalServiceError {
	svcErr := &parser.ExternalServiceError{
		Provider:   "groq",
		StatusCode: status,
		Message:    truncate(string(body), 500),
	}
	if errObj := gjson.GetBytes(body, "error"); errObj.Exists() {
		if msg := errObj.Get("message"); msg.Exists() {
			svcErr.Message = msg.String()
		}
		svcErr.Code = errObj.Get("code").String()
		svcErr.FailedGeneration = errObj.Get("failed_generation").String()
	}
	return svcErr
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
