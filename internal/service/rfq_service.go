package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"rfqforge/internal/config"
	"rfqforge/internal/domain"
	"rfqforge/internal/port"
)

// ParseTextInput is the DTO for pasted-text extraction requests.
type ParseTextInput struct {
	Text        string
	FileContext *domain.FileContext
	UserContext *domain.UserContext
	SourceKey   string
	Options     port.ParseOptions
}

// ParseDocumentInput is the DTO for uploaded-document extraction requests.
type ParseDocumentInput struct {
	File        multipart.File
	Header      *multipart.FileHeader
	UserContext *domain.UserContext
	Options     port.ParseOptions
}

// RFQService defines the RFQ extraction and draft management contract.
type RFQService interface {
	ParseText(ctx context.Context, input ParseTextInput) (*domain.RFQDraft, error)
	ParseDocument(ctx context.Context, input ParseDocumentInput) (*domain.RFQDraft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*domain.RFQDraft, error)
	GetSourceURL(ctx context.Context, id uuid.UUID) (string, error)
	ListDrafts(ctx context.Context, offset, limit int) ([]domain.RFQDraft, int, error)
	ReviewDraft(ctx context.Context, id uuid.UUID) error
	DeleteDraft(ctx context.Context, id uuid.UUID) error
}

type rfqService struct {
	parser    port.RFQParser
	extractor port.TextExtractor
	drafts    port.RFQDraftRepository
	storage   port.ObjectStorage
	s3cfg     *config.S3Config
}

// NewRFQService creates a new RFQService implementation. Storage may be nil
// when document archival is not configured.
func NewRFQService(
	rfqParser port.RFQParser,
	extractor port.TextExtractor,
	drafts port.RFQDraftRepository,
	storage port.ObjectStorage,
	s3cfg *config.S3Config,
) RFQService {
	return &rfqService{
		parser:    rfqParser,
		extractor: extractor,
		drafts:    drafts,
		storage:   storage,
		s3cfg:     s3cfg,
	}
}

func (s *rfqService) ParseText(ctx context.Context, input ParseTextInput) (*domain.RFQDraft, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	normalized := domain.NormalizedInput{
		Text:        text,
		FileContext: input.FileContext,
		UserContext: input.UserContext,
	}

	parsed, err := s.parser.ParseRFQ(ctx, normalized, input.Options)
	if err != nil {
		return nil, err
	}

	draft := &domain.RFQDraft{
		ID:             uuid.New(),
		SourceText:     text,
		SourceKey:      input.SourceKey,
		ModelUsed:      parsed.ModelUsed,
		ParsingVersion: parsed.ParsingVersion,
		IsReviewed:     parsed.IsReviewed,
	}
	if fc := input.FileContext; fc != nil {
		draft.Filename = fc.Filename
		draft.FileType = fc.FileType
		draft.SheetName = fc.SheetName
	}

	payload, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("marshaling parsed rfq: %w", err)
	}
	draft.Parsed = payload

	// Persistence is a downstream collaborator: a failed save must never turn
	// a successful extraction into an error for the caller.
	if err := s.drafts.Create(ctx, draft); err != nil {
		log.Printf("rfqService.ParseText: failed to persist draft %s: %v", draft.ID, err)
	}
	return draft, nil
}

func (s *rfqService) ParseDocument(ctx context.Context, input ParseDocumentInput) (*domain.RFQDraft, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if s.s3cfg != nil && s.s3cfg.MaxFileSizeMB > 0 && input.Header.Size > s.s3cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	extracted, err := s.extractor.Extract(port.ExtractInput{
		Reader:   input.File,
		Size:     input.Header.Size,
		Filename: input.Header.Filename,
		FileType: fileType,
	})
	if err != nil {
		return nil, err
	}

	sourceKey := s.archiveSource(ctx, input.File, input.Header, fileType)

	return s.ParseText(ctx, ParseTextInput{
		Text:        extracted.Text,
		FileContext: &extracted.FileContext,
		UserContext: input.UserContext,
		SourceKey:   sourceKey,
		Options:     input.Options,
	})
}

// archiveSource uploads the original document to object storage and returns
// the object key, or "" when archival is unconfigured or fails. Best effort:
// extraction already has the text, so archival failures are only logged.
func (s *rfqService) archiveSource(ctx context.Context, file multipart.File, header *multipart.FileHeader, fileType domain.FileType) string {
	if s.storage == nil || s.s3cfg == nil || s.s3cfg.Bucket == "" {
		return ""
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		log.Printf("rfqService.archiveSource: rewinding %s: %v", header.Filename, err)
		return ""
	}
	key := fmt.Sprintf("rfq-sources/%s/%s", uuid.New(), filepath.Base(header.Filename))
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        file,
		ContentType: domain.AllowedFileTypes[fileType],
		Size:        header.Size,
	})
	if err != nil {
		log.Printf("rfqService.archiveSource: failed to archive %s: %v", header.Filename, err)
		return ""
	}
	return key
}

func (s *rfqService) GetDraft(ctx context.Context, id uuid.UUID) (*domain.RFQDraft, error) {
	return s.drafts.GetByID(ctx, id)
}

// GetSourceURL returns a presigned download URL for a draft's archived source
// document.
func (s *rfqService) GetSourceURL(ctx context.Context, id uuid.UUID) (string, error) {
	draft, err := s.drafts.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if draft.SourceKey == "" || s.storage == nil || s.s3cfg == nil {
		return "", domain.ErrNoSourceArchived
	}
	expiry := s.s3cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 3600
	}
	return s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, draft.SourceKey, expiry)
}

func (s *rfqService) ListDrafts(ctx context.Context, offset, limit int) ([]domain.RFQDraft, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.drafts.List(ctx, offset, limit)
}

func (s *rfqService) ReviewDraft(ctx context.Context, id uuid.UUID) error {
	return s.drafts.MarkReviewed(ctx, id)
}

func (s *rfqService) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	return s.drafts.Delete(ctx, id)
}
