package parser

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"rfqforge/internal/domain"
)

const (
	// ParsingVersion identifies the extraction pipeline release stamped onto
	// every validated result.
	ParsingVersion = "1.2.0"

	// DefaultConfidenceThreshold gates low-confidence extractions when no
	// threshold is configured.
	DefaultConfidenceThreshold = 0.7
)

var requiredFields = []string{"material", "quantity", "dimensions", "complexity", "deadline", "industry"}

// ValidateCandidate converts an untrusted candidate object into a ParsedRFQ,
// coercing numeric-looking values and defaulting the fields that are
// best-effort by design. Structural problems and out-of-taxonomy industries
// are hard failures; sub-threshold confidence raises LowConfidenceError.
func ValidateCandidate(candidate map[string]any, threshold float64) (*domain.ParsedRFQ, error) {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}

	for _, field := range requiredFields {
		if _, ok := candidate[field]; !ok {
			return nil, &ParsingError{Field: field, Message: "missing required field"}
		}
	}

	material, ok := candidate["material"].(string)
	if !ok || material == "" {
		return nil, &ParsingError{Field: "material", Message: "must be a string"}
	}

	quantity, ok := toNumber(candidate["quantity"])
	if !ok {
		return nil, &ParsingError{Field: "quantity", Message: "not a number"}
	}

	dims := validateDimensions(candidate["dimensions"])

	complexity := validateComplexity(candidate["complexity"])

	deadline, err := validateDeadline(candidate["deadline"])
	if err != nil {
		return nil, err
	}

	rawIndustry, _ := candidate["industry"].(string)
	industry, ok := domain.ParseIndustry(rawIndustry)
	if !ok {
		// Industry routes the RFQ to an entirely different downstream form, so
		// unlike complexity it is never silently defaulted.
		return nil, &ParsingError{Field: "industry", Message: fmt.Sprintf("unsupported industry %q", rawIndustry)}
	}

	materialConf := validateConfidence(candidate["material_confidence"], "material_confidence")
	industryConf := validateConfidence(candidate["industry_confidence"], "industry_confidence")

	if materialConf < threshold || industryConf < threshold {
		return nil, &LowConfidenceError{
			Candidate:          candidate,
			MaterialConfidence: materialConf,
			IndustryConfidence: industryConf,
			Threshold:          threshold,
		}
	}

	return &domain.ParsedRFQ{
		Material:           material,
		MaterialConfidence: materialConf,
		Quantity:           quantity,
		Dimensions:         dims,
		Complexity:         complexity,
		Deadline:           deadline,
		Industry:           industry,
		IndustryConfidence: industryConf,
		Finish:             optionalString(candidate["finish"]),
		Tolerance:          optionalString(candidate["tolerance"]),
	}, nil
}

// validateDimensions coerces the dimensions object. A missing or non-object
// value is replaced wholesale with zeros; individual sub-fields that fail
// numeric coercion default to 0. Always returns finite numbers, never fails.
func validateDimensions(raw any) domain.Dimensions {
	obj, ok := raw.(map[string]any)
	if !ok {
		log.Printf("parser.ValidateCandidate: dimensions is %T, replacing with zeros", raw)
		return domain.Dimensions{}
	}
	var dims domain.Dimensions
	for key, dst := range map[string]*float64{
		"length": &dims.Length,
		"width":  &dims.Width,
		"height": &dims.Height,
	} {
		val, ok := toNumber(obj[key])
		if !ok {
			log.Printf("parser.ValidateCandidate: dimensions.%s not numeric, defaulting to 0", key)
			val = 0
		}
		*dst = val
	}
	return dims
}

func validateComplexity(raw any) domain.Complexity {
	s, _ := raw.(string)
	complexity, ok := domain.ParseComplexity(s)
	if !ok {
		log.Printf("parser.ValidateCandidate: complexity %q outside {low,medium,high}, defaulting to medium", s)
	}
	return complexity
}

func validateDeadline(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", &ParsingError{Field: "deadline", Message: "empty deadline"}
		}
		// ISO dates are passed through as-is; anything else is the model's
		// best effort and kept verbatim for human review.
		return v, nil
	case nil:
		return "", &ParsingError{Field: "deadline", Message: "missing required field"}
	default:
		return fmt.Sprint(v), nil
	}
}

// validateConfidence coerces a confidence score to [0,1]. Out-of-shape values
// default to 0.5 with a warning: confidence is diagnostic, not structural.
func validateConfidence(raw any, field string) float64 {
	val, ok := toNumber(raw)
	if !ok || val < 0 || val > 1 {
		log.Printf("parser.ValidateCandidate: %s is not a number in [0,1], defaulting to 0.5", field)
		return 0.5
	}
	return val
}

// toNumber coerces numeric-looking values (floats, ints, json.Number, numeric
// strings) into a finite float64.
func toNumber(raw any) (float64, bool) {
	var val float64
	switch v := raw.(type) {
	case float64:
		val = v
	case float32:
		val = float64(v)
	case int:
		val = float64(v)
	case int64:
		val = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		val = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(v, ",", "")), 64)
		if err != nil {
			return 0, false
		}
		val = f
	default:
		return 0, false
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}

// optionalString passes through optional free-text fields; empty or non-string
// values collapse to the zero string.
func optionalString(raw any) string {
	s, _ := raw.(string)
	return strings.TrimSpace(s)
}
