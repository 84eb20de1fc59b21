package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FileContext carries metadata about the document an RFQ text was pulled from.
type FileContext struct {
	Filename  string `json:"filename,omitempty"`
	FileType  string `json:"file_type,omitempty"`
	SheetName string `json:"sheet_name,omitempty"`
}

// UserContext carries soft hints from the requesting user's profile.
// PreferredIndustry is only ever a hint to the extraction model, never an override.
type UserContext struct {
	PreferredIndustry string `json:"preferred_industry,omitempty"`
	Theme             string `json:"theme,omitempty"`
}

// NormalizedInput is the canonical extraction input: trimmed RFQ text plus
// optional file and user context. Built once per extraction call.
type NormalizedInput struct {
	Text        string       `json:"text"`
	FileContext *FileContext `json:"file_context,omitempty"`
	UserContext *UserContext `json:"user_context,omitempty"`
}

// Dimensions holds part dimensions in millimeters. After validation all three
// values are finite numbers; missing inputs default to 0.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ParsedRFQ is the validated, strictly-typed extraction result.
type ParsedRFQ struct {
	Material           string     `json:"material"`
	MaterialConfidence float64    `json:"material_confidence"`
	Quantity           float64    `json:"quantity"`
	Dimensions         Dimensions `json:"dimensions"`
	Complexity         Complexity `json:"complexity"`
	Deadline           string     `json:"deadline"`
	Industry           Industry   `json:"industry"`
	IndustryConfidence float64    `json:"industry_confidence"`
	Finish             string     `json:"finish,omitempty"`
	Tolerance          string     `json:"tolerance,omitempty"`

	// Enrichment fields, set by the cascade after validation.
	ModelUsed      string `json:"model_used"`
	ParsingVersion string `json:"parsing_version"`
	Timestamp      string `json:"timestamp"`
	IsReviewed     bool   `json:"is_reviewed"`
}

// RFQDraft is a persisted extraction result awaiting human review.
type RFQDraft struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	SourceText     string          `db:"source_text" json:"source_text"`
	Filename       string          `db:"filename" json:"filename,omitempty"`
	FileType       string          `db:"file_type" json:"file_type,omitempty"`
	SheetName      string          `db:"sheet_name" json:"sheet_name,omitempty"`
	SourceKey      string          `db:"source_key" json:"source_key,omitempty"`
	Parsed         json.RawMessage `db:"parsed" json:"parsed"`
	ModelUsed      string          `db:"model_used" json:"model_used"`
	ParsingVersion string          `db:"parsing_version" json:"parsing_version"`
	IsReviewed     bool            `db:"is_reviewed" json:"is_reviewed"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}
