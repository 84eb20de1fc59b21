package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rfqforge/internal/domain"
	"rfqforge/internal/port"
)

type rfqDraftRepo struct {
	db *sqlx.DB
}

// NewRFQDraftRepo creates a new PostgreSQL-backed RFQDraftRepository.
func NewRFQDraftRepo(db *sqlx.DB) port.RFQDraftRepository {
	return &rfqDraftRepo{db: db}
}

func (r *rfqDraftRepo) Create(ctx context.Context, draft *domain.RFQDraft) error {
	now := time.Now().UTC()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	query := `INSERT INTO rfq_drafts
		(id, source_text, filename, file_type, sheet_name, source_key, parsed,
		 model_used, parsing_version, is_reviewed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		draft.ID, draft.SourceText, draft.Filename, draft.FileType, draft.SheetName,
		draft.SourceKey, draft.Parsed, draft.ModelUsed, draft.ParsingVersion,
		draft.IsReviewed, draft.CreatedAt, draft.UpdatedAt)
	if err != nil {
		return fmt.Errorf("rfqDraftRepo.Create: %w", err)
	}
	return nil
}

func (r *rfqDraftRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RFQDraft, error) {
	var draft domain.RFQDraft
	err := r.db.GetContext(ctx, &draft, "SELECT * FROM rfq_drafts WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("rfqDraftRepo.GetByID: %w", err)
	}
	return &draft, nil
}

func (r *rfqDraftRepo) List(ctx context.Context, offset, limit int) ([]domain.RFQDraft, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM rfq_drafts"); err != nil {
		return nil, 0, fmt.Errorf("rfqDraftRepo.List count: %w", err)
	}

	var drafts []domain.RFQDraft
	err := r.db.SelectContext(ctx, &drafts,
		"SELECT * FROM rfq_drafts ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("rfqDraftRepo.List: %w", err)
	}
	return drafts, total, nil
}

func (r *rfqDraftRepo) MarkReviewed(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE rfq_drafts SET is_reviewed = TRUE, updated_at = $1 WHERE id = $2 AND is_reviewed = FALSE",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("rfqDraftRepo.MarkReviewed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rfqDraftRepo.MarkReviewed rows: %w", err)
	}
	if rows == 0 {
		// Either the draft does not exist or it was already reviewed.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return domain.ErrAlreadyReviewed
	}
	return nil
}

func (r *rfqDraftRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rfq_drafts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("rfqDraftRepo.Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rfqDraftRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
