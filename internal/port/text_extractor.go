package port

import (
	"io"

	"rfqforge/internal/domain"
)

// ExtractInput carries an uploaded document for text extraction.
type ExtractInput struct {
	Reader   io.ReaderAt
	Size     int64
	Filename string
	FileType domain.FileType
}

// ExtractOutput is the pulled text plus the file context handed to the prompt.
type ExtractOutput struct {
	Text        string
	FileContext domain.FileContext
}

// TextExtractor pulls free text out of an uploaded RFQ document.
type TextExtractor interface {
	Extract(input ExtractInput) (*ExtractOutput, error)
}
