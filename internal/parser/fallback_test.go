package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rfqforge/internal/config"
	"rfqforge/internal/domain"
	"rfqforge/internal/parser"
	"rfqforge/internal/port"
	"rfqforge/mocks"
)

const goodResponse = `{"material": "6061 aluminum", "material_confidence": 0.95, "quantity": 50, "dimensions": {"length": 76.2, "width": 50.8, "height": 25.4}, "complexity": "low", "deadline": "2026-09-15", "industry": "metal fabrication", "industry_confidence": 0.9, "finish": null, "tolerance": null}`

const lowConfResponse = `{"material": "maybe aluminum", "material_confidence": 0.4, "quantity": 50, "dimensions": {"length": 0, "width": 0, "height": 0}, "complexity": "low", "deadline": "2026-09-15", "industry": "metal fabrication", "industry_confidence": 0.4}`

func cascadeConfig() *config.ParserConfig {
	return &config.ParserConfig{
		APIKey:              "test-key",
		PrimaryModel:        "model-primary",
		FallbackModel:       "model-fallback",
		EmergencyModel:      "model-emergency",
		TimeoutSecs:         5,
		ConfidenceThreshold: 0.7,
	}
}

func input() domain.NormalizedInput {
	return domain.NormalizedInput{Text: "Need 50 brackets, 6061 aluminum, 3in x 2in x 1in, due Sep 15"}
}

func TestCascade_PrimarySuccess(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, "model-primary", mock.Anything, "test-key").
		Return(goodResponse, nil).Once()

	cascade := parser.NewCascade(client, cascadeConfig())
	rfq, err := cascade.ParseRFQ(context.Background(), input(), port.ParseOptions{UseModelFallback: true})
	require.NoError(t, err)

	assert.Equal(t, "6061 aluminum", rfq.Material)
	assert.Equal(t, "model-primary", rfq.ModelUsed)
	assert.Equal(t, parser.ParsingVersion, rfq.ParsingVersion)
	assert.NotEmpty(t, rfq.Timestamp)
	assert.False(t, rfq.IsReviewed)
	client.AssertExpectations(t)
}

func TestCascade_MissingCredential(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	cfg := cascadeConfig()
	cfg.APIKey = ""

	cascade := parser.NewCascade(client, cfg)
	_, err := cascade.ParseRFQ(context.Background(), input(), port.ParseOptions{})

	var missing *parser.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "groq", missing.Provider)
	client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCascade_RequestAPIKeyOverridesConfig(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, "model-primary", mock.Anything, "caller-key").
		Return(goodResponse, nil).Once()

	cascade := parser.NewCascade(client, cascadeConfig())
	_, err := cascade.ParseRFQ(context.Background(), input(), port.ParseOptions{APIKey: "caller-key"})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestCascade_LowConfidenceSkipsFallback(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, "model-primary", mock.Anything, "test-key").
		Return(lowConfResponse, nil).Once()

	cascade := parser.NewCascade(client, cascadeConfig())
	_, err := cascade.ParseRFQ(context.Background(), input(), port.ParseOptions{UseModelFallback: true})

	var lowConf *parser.LowConfidenceError
	require.ErrorAs(t, err, &lowConf)
	client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestCascade_FallbackDisabled(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	svcErr := &parser.ExternalServiceError{Provider: "groq", StatusCode: 500, Message: "internal error"}
	client.On("Complete", mock.Anything, "model-primary", mock.Anything, "test-key").
		Return("", svcErr).Once()

	cascade := parser.NewCascade(client, cascadeConfig())
	_, err := cascade.ParseRFQ(context.Background(), input(), port.ParseOptions{UseModelFallback: false})

	assert.ErrorAs(t, err, new(*parser.ExternalServiceError))
	client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestCascade_FallbackSuccess(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, "model-primary", mock.Anything, "test-key").
		Return("", &parser.ExternalServiceError{Provider: "groq", Timeout: true}).Once()
	client.On("Complete", mock.Anything, "model-fallback", mock.Anything, "test-key").
		Return(goodResponse, nil).Once()

	cascade := parser.NewCascade(client, cascadeConfig())
	rfq, err := cascade.ParseRFQ(context.Background(), input(), port.ParseOptions{UseModelFallback: true})
	require.NoError(t, err)

	assert.Equal(t, "model-fallback", rfq.ModelUsed)
	client.AssertExpectations(t)
}

func TestCascade_DecommissionedFallbackTriggersEmergency(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, "model-primary", mock.Anything, "test-key").
		Return("", &parser.ExternalServiceError{Provider: "groq", StatusCode: 500, Message: "internal error"}).Once()
	client.On("Complete", mock.Anything, "model-fallback", mock.Anything, "test-key").
		Return("", &parser.ExternalServiceError{Provider: "groq", StatusCode: 400, Code: "model_decommissioned"}).Once()
	client.On("Complete", mock.Anything, "model-emergency", mock.Anything, "test-key").
		Return(goodResponse, nil).Once()

	cascade := parser.NewCascade(client, cascadeConfig())
	rfq, err := cascade.ParseRFQ(context.Background(), input(), port.ParseOptions{UseModelFallback: true})
	require.NoError(t, err)

	assert.Equal(t, "model-emergency (emergency fallback)", rfq.ModelUsed)
	client.AssertExpectations(t)
}

func TestCascade_FallbackErrorWithoutDecommissionStops(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, "model-primary", mock.Anything, "test-key").
		Return("", &parser.ExternalServiceError{Provider: "groq", StatusCode: 500}).Once()
	fbErr := &parser.ExternalServiceError{Provider: "groq", StatusCode: 429, Message: "rate limited"}
	client.On("Complete", mock.Anything, "model-fallback", mock.Anything, "test-key").
		Return("", fbErr).Once()

	cascade := parser.NewCascade(client, cascadeConfig())
	_, err := cascade.ParseRFQ(context.Background(), input(), port.ParseOptions{UseModelFallback: true})

	var svcErr *parser.ExternalServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 429, svcErr.StatusCode)
	client.AssertNumberOfCalls(t, "Complete", 2)
}

func TestCascade_SalvagesFailedGeneration(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, "model-primary", mock.Anything, "test-key").
		Return("", &parser.ExternalServiceError{
			Provider:         "groq",
			StatusCode:       400,
			Code:             "json_validate_failed",
			FailedGeneration: "```json\n" + goodResponse + "\n```",
		}).Once()

	cascade := parser.NewCascade(client, cascadeConfig())
	rfq, err := cascade.ParseRFQ(context.Background(), input(), port.ParseOptions{UseModelFallback: true})
	require.NoError(t, err)

	assert.Equal(t, "6061 aluminum", rfq.Material)
	assert.Equal(t, "model-primary", rfq.ModelUsed)
	client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestCascade_UnrepairableResponse(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, "model-primary", mock.Anything, "test-key").
		Return("I am sorry, I cannot help with that.", nil).Once()

	cascade := parser.NewCascade(client, cascadeConfig())
	_, err := cascade.ParseRFQ(context.Background(), input(), port.ParseOptions{})

	var perr *parser.ParsingError
	assert.ErrorAs(t, err, &perr)
}
