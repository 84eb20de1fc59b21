package domain

import "strings"

// Complexity is the manufacturing complexity band of a part.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ParseComplexity normalizes a raw complexity value. Unknown values fall back
// to medium: complexity only feeds pricing heuristics downstream and is
// best-effort, not authoritative.
func ParseComplexity(raw string) (Complexity, bool) {
	c := Complexity(strings.ToLower(strings.TrimSpace(raw)))
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return c, true
	}
	return ComplexityMedium, false
}

// Industry is the closed manufacturing industry classification. It drives
// routing to an entirely different downstream quote form, so values outside
// the closed set are rejected rather than defaulted.
type Industry string

const (
	IndustryMetalFabrication    Industry = "metal fabrication"
	IndustryInjectionMolding    Industry = "injection molding"
	IndustryCNCMachining        Industry = "cnc machining"
	IndustrySheetMetal          Industry = "sheet metal"
	IndustryElectronicsAssembly Industry = "electronics assembly"
)

// Industries returns the closed set of supported industries in a fixed order.
func Industries() []Industry {
	return []Industry{
		IndustryMetalFabrication,
		IndustryInjectionMolding,
		IndustryCNCMachining,
		IndustrySheetMetal,
		IndustryElectronicsAssembly,
	}
}

// ParseIndustry normalizes a raw industry value against the closed set.
func ParseIndustry(raw string) (Industry, bool) {
	ind := Industry(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Industries() {
		if ind == known {
			return ind, true
		}
	}
	return "", false
}

// FileType represents the document types accepted for RFQ text extraction.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeXLSX FileType = "xlsx"
	FileTypeCSV  FileType = "csv"
	FileTypeTXT  FileType = "txt"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"xlsx": FileTypeXLSX,
	"xls":  FileTypeXLSX,
	"csv":  FileTypeCSV,
	"txt":  FileTypeTXT,
}

// AllowedFileTypes maps FileType to its MIME content type for storage.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FileTypeCSV:  "text/csv",
	FileTypeTXT:  "text/plain",
}
