package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rfqforge/internal/domain"
	"rfqforge/internal/parser"
)

func TestBuildExtractionPrompt_Basic(t *testing.T) {
	input := domain.NormalizedInput{Text: "Need 50 brackets, 6061 aluminum"}
	prompt := parser.BuildExtractionPrompt(input)

	assert.Contains(t, prompt, "multiplying by 25.4")
	assert.Contains(t, prompt, `"metal fabrication", "injection molding", "cnc machining", "sheet metal", "electronics assembly"`)
	assert.Contains(t, prompt, "Need 50 brackets, 6061 aluminum")
	assert.Contains(t, prompt, "Examples:")
	assert.NotContains(t, prompt, "Document context:")

	// Instructions precede the RFQ text, examples follow it.
	assert.Less(t, strings.Index(prompt, "RFQ text:"), strings.Index(prompt, "Examples:"))
}

func TestBuildExtractionPrompt_Deterministic(t *testing.T) {
	input := domain.NormalizedInput{
		Text:        "25 stainless shafts",
		FileContext: &domain.FileContext{Filename: "rfq.xlsx", FileType: "xlsx", SheetName: "Q3"},
		UserContext: &domain.UserContext{PreferredIndustry: "cnc machining"},
	}
	assert.Equal(t, parser.BuildExtractionPrompt(input), parser.BuildExtractionPrompt(input))
}

func TestBuildExtractionPrompt_FileContext(t *testing.T) {
	input := domain.NormalizedInput{
		Text:        "quote request",
		FileContext: &domain.FileContext{Filename: "rfq.xlsx", FileType: "xlsx", SheetName: "Q3 Orders"},
	}
	prompt := parser.BuildExtractionPrompt(input)

	assert.Contains(t, prompt, "Document context:")
	assert.Contains(t, prompt, "Source file: rfq.xlsx")
	assert.Contains(t, prompt, "File type: xlsx")
	assert.Contains(t, prompt, "Sheet: Q3 Orders")
}

func TestBuildExtractionPrompt_PreferredIndustryIsWeakPrior(t *testing.T) {
	input := domain.NormalizedInput{
		Text:        "quote request",
		UserContext: &domain.UserContext{PreferredIndustry: "injection molding"},
	}
	prompt := parser.BuildExtractionPrompt(input)

	assert.Contains(t, prompt, `"injection molding" industry`)
	assert.Contains(t, prompt, "weak prior, not a constraint")
}

func TestBuildExtractionPrompt_ThemeIgnored(t *testing.T) {
	withTheme := domain.NormalizedInput{
		Text:        "quote request",
		UserContext: &domain.UserContext{Theme: "dark"},
	}
	without := domain.NormalizedInput{Text: "quote request"}

	assert.Equal(t, parser.BuildExtractionPrompt(without), parser.BuildExtractionPrompt(withTheme))
}

func TestNormalize(t *testing.T) {
	input := domain.NormalizedInput{
		Text:        "  \n Need 50 brackets \t",
		FileContext: &domain.FileContext{Filename: "rfq.txt"},
	}
	got := parser.Normalize(input)

	assert.Equal(t, "Need 50 brackets", got.Text)
	assert.Equal(t, input.FileContext, got.FileContext)
}

func TestNormalizeText(t *testing.T) {
	got := parser.NormalizeText("  quote please  ")
	assert.Equal(t, "quote please", got.Text)
	assert.Nil(t, got.FileContext)
	assert.Nil(t, got.UserContext)
}
