package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrEmptyText           = errors.New("rfq text is empty")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrNoTextExtracted     = errors.New("no text could be extracted from document")
	ErrAlreadyReviewed     = errors.New("draft has already been reviewed")
	ErrNoSourceArchived    = errors.New("draft has no archived source document")
)
