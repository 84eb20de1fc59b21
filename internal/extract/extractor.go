package extract

import (
	"fmt"
	"strings"

	"rfqforge/internal/domain"
	"rfqforge/internal/port"
)

// Extractor pulls RFQ text out of uploaded documents. It implements
// port.TextExtractor, dispatching on the declared file type.
type Extractor struct{}

// NewExtractor creates a document text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(input port.ExtractInput) (*port.ExtractOutput, error) {
	out := &port.ExtractOutput{
		FileContext: domain.FileContext{
			Filename: input.Filename,
			FileType: string(input.FileType),
		},
	}

	var (
		text  string
		sheet string
		err   error
	)
	switch input.FileType {
	case domain.FileTypeXLSX:
		text, sheet, err = extractSpreadsheet(input.Reader, input.Size)
	case domain.FileTypeCSV:
		text, err = extractCSV(input.Reader, input.Size)
	case domain.FileTypePDF:
		text, err = extractPDF(input.Reader, input.Size)
	case domain.FileTypeTXT:
		text, err = extractPlainText(input.Reader, input.Size)
	default:
		return nil, domain.ErrUnsupportedFileType
	}
	if err != nil {
		return nil, fmt.Errorf("extracting %s text: %w", input.FileType, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrNoTextExtracted
	}
	out.Text = text
	out.FileContext.SheetName = sheet
	return out, nil
}
