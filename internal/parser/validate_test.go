package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfqforge/internal/domain"
	"rfqforge/internal/parser"
)

func validCandidate() map[string]any {
	return map[string]any{
		"material":            "6061 aluminum",
		"material_confidence": 0.95,
		"quantity":            float64(50),
		"dimensions":          map[string]any{"length": 76.2, "width": 50.8, "height": 25.4},
		"complexity":          "low",
		"deadline":            "2026-09-15",
		"industry":            "metal fabrication",
		"industry_confidence": 0.9,
		"finish":              "anodized",
		"tolerance":           "±0.1mm",
	}
}

func TestValidateCandidate_Valid(t *testing.T) {
	rfq, err := parser.ValidateCandidate(validCandidate(), 0.7)
	require.NoError(t, err)

	assert.Equal(t, "6061 aluminum", rfq.Material)
	assert.Equal(t, 0.95, rfq.MaterialConfidence)
	assert.Equal(t, float64(50), rfq.Quantity)
	assert.Equal(t, domain.Dimensions{Length: 76.2, Width: 50.8, Height: 25.4}, rfq.Dimensions)
	assert.Equal(t, domain.ComplexityLow, rfq.Complexity)
	assert.Equal(t, "2026-09-15", rfq.Deadline)
	assert.Equal(t, domain.IndustryMetalFabrication, rfq.Industry)
	assert.Equal(t, "anodized", rfq.Finish)
	assert.Equal(t, "±0.1mm", rfq.Tolerance)
}

func TestValidateCandidate_MissingRequiredField(t *testing.T) {
	for _, field := range []string{"material", "quantity", "dimensions", "complexity", "deadline", "industry"} {
		t.Run(field, func(t *testing.T) {
			candidate := validCandidate()
			delete(candidate, field)

			_, err := parser.ValidateCandidate(candidate, 0.7)
			var perr *parser.ParsingError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, field, perr.Field)
		})
	}
}

func TestValidateCandidate_MaterialMustBeString(t *testing.T) {
	candidate := validCandidate()
	candidate["material"] = 42

	_, err := parser.ValidateCandidate(candidate, 0.7)
	var perr *parser.ParsingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "material", perr.Field)
}

func TestValidateCandidate_QuantityCoercion(t *testing.T) {
	candidate := validCandidate()
	candidate["quantity"] = "1,000"

	rfq, err := parser.ValidateCandidate(candidate, 0.7)
	require.NoError(t, err)
	assert.Equal(t, float64(1000), rfq.Quantity)
}

func TestValidateCandidate_QuantityNotNumeric(t *testing.T) {
	candidate := validCandidate()
	candidate["quantity"] = "a few"

	_, err := parser.ValidateCandidate(candidate, 0.7)
	var perr *parser.ParsingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "quantity", perr.Field)
}

func TestValidateCandidate_DimensionsNotObject(t *testing.T) {
	candidate := validCandidate()
	candidate["dimensions"] = "120x80x40"

	rfq, err := parser.ValidateCandidate(candidate, 0.7)
	require.NoError(t, err)
	assert.Equal(t, domain.Dimensions{}, rfq.Dimensions)
}

func TestValidateCandidate_DimensionsPartialDefaults(t *testing.T) {
	candidate := validCandidate()
	candidate["dimensions"] = map[string]any{"length": 150.0, "width": "not a number"}

	rfq, err := parser.ValidateCandidate(candidate, 0.7)
	require.NoError(t, err)
	assert.Equal(t, domain.Dimensions{Length: 150, Width: 0, Height: 0}, rfq.Dimensions)
}

func TestValidateCandidate_ComplexityDefaultsToMedium(t *testing.T) {
	candidate := validCandidate()
	candidate["complexity"] = "extreme"

	rfq, err := parser.ValidateCandidate(candidate, 0.7)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplexityMedium, rfq.Complexity)
}

func TestValidateCandidate_IndustryOutsideTaxonomyFails(t *testing.T) {
	candidate := validCandidate()
	candidate["industry"] = "aerospace"

	_, err := parser.ValidateCandidate(candidate, 0.7)
	var perr *parser.ParsingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "industry", perr.Field)
}

func TestValidateCandidate_NullDeadlineFails(t *testing.T) {
	candidate := validCandidate()
	candidate["deadline"] = nil

	_, err := parser.ValidateCandidate(candidate, 0.7)
	var perr *parser.ParsingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "deadline", perr.Field)
}

func TestValidateCandidate_ConfidenceOutOfRangeDefaults(t *testing.T) {
	candidate := validCandidate()
	candidate["material_confidence"] = 1.7
	candidate["industry_confidence"] = "very sure"

	// Both scores collapse to 0.5 and clear a 0.4 gate.
	rfq, err := parser.ValidateCandidate(candidate, 0.4)
	require.NoError(t, err)
	assert.Equal(t, 0.5, rfq.MaterialConfidence)
	assert.Equal(t, 0.5, rfq.IndustryConfidence)
}

func TestValidateCandidate_ConfidenceGate(t *testing.T) {
	candidate := validCandidate()
	candidate["material_confidence"] = 0.6

	_, err := parser.ValidateCandidate(candidate, 0.7)
	var lowConf *parser.LowConfidenceError
	require.ErrorAs(t, err, &lowConf)
	assert.Equal(t, 0.6, lowConf.MaterialConfidence)
	assert.Equal(t, 0.9, lowConf.IndustryConfidence)
	assert.Equal(t, 0.7, lowConf.Threshold)
	assert.Equal(t, "6061 aluminum", lowConf.Candidate["material"])

	// Terminal for the fallback chain.
	assert.False(t, parser.IsRetryable(err))
}

func TestValidateCandidate_ZeroThresholdUsesDefault(t *testing.T) {
	candidate := validCandidate()
	candidate["material_confidence"] = 0.65

	_, err := parser.ValidateCandidate(candidate, 0)
	var lowConf *parser.LowConfidenceError
	require.ErrorAs(t, err, &lowConf)
	assert.Equal(t, parser.DefaultConfidenceThreshold, lowConf.Threshold)
}

func TestValidateCandidate_OptionalFieldsAbsent(t *testing.T) {
	candidate := validCandidate()
	delete(candidate, "finish")
	candidate["tolerance"] = nil

	rfq, err := parser.ValidateCandidate(candidate, 0.7)
	require.NoError(t, err)
	assert.Empty(t, rfq.Finish)
	assert.Empty(t, rfq.Tolerance)
}

func TestValidateCandidate_ScrapedCandidateFailsDefaultGate(t *testing.T) {
	obj, ok := parser.RepairJSON(`material: steel plate, industry: sheet metal, quantity: 10`)
	require.True(t, ok)

	_, err := parser.ValidateCandidate(obj, 0.7)
	var lowConf *parser.LowConfidenceError
	assert.True(t, errors.As(err, &lowConf))
}
