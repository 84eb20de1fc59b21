package parser

import (
	"strings"

	"rfqforge/internal/domain"
)

// NormalizeText wraps bare RFQ text as a NormalizedInput with trimmed text.
func NormalizeText(text string) domain.NormalizedInput {
	return domain.NormalizedInput{Text: strings.TrimSpace(text)}
}

// Normalize returns a copy of input with its text trimmed. Empty text is not
// rejected here; that is the caller's concern.
func Normalize(input domain.NormalizedInput) domain.NormalizedInput {
	input.Text = strings.TrimSpace(input.Text)
	return input
}
