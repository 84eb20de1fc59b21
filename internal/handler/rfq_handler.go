package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rfqforge/internal/csvexport"
	"rfqforge/internal/domain"
	"rfqforge/internal/port"
	"rfqforge/internal/service"
)

// RFQHandler handles RFQ extraction and draft endpoints.
type RFQHandler struct {
	rfqService service.RFQService
}

// NewRFQHandler creates a new RFQHandler.
func NewRFQHandler(rfqService service.RFQService) *RFQHandler {
	return &RFQHandler{rfqService: rfqService}
}

// parseRequest is the JSON body for POST /rfq/parse.
type parseRequest struct {
	Text             string              `json:"text" binding:"required"`
	FileContext      *domain.FileContext `json:"file_context,omitempty"`
	UserContext      *domain.UserContext `json:"user_context,omitempty"`
	APIKey           string              `json:"api_key,omitempty"`
	TimeoutMs        int                 `json:"timeout_ms,omitempty"`
	UseModelFallback bool                `json:"use_model_fallback,omitempty"`
}

// Parse handles POST /api/v1/rfq/parse
func (h *RFQHandler) Parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text field is required")
		return
	}

	draft, err := h.rfqService.ParseText(c.Request.Context(), service.ParseTextInput{
		Text:        req.Text,
		FileContext: req.FileContext,
		UserContext: req.UserContext,
		Options: port.ParseOptions{
			APIKey:           req.APIKey,
			TimeoutMs:        req.TimeoutMs,
			UseModelFallback: req.UseModelFallback,
		},
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, draft)
}

// Upload handles POST /api/v1/rfq/upload (multipart)
func (h *RFQHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	input := service.ParseDocumentInput{
		File:   file,
		Header: header,
		Options: port.ParseOptions{
			UseModelFallback: c.PostForm("use_model_fallback") == "true",
		},
	}
	if industry := c.PostForm("preferred_industry"); industry != "" {
		input.UserContext = &domain.UserContext{PreferredIndustry: industry}
	}

	draft, err := h.rfqService.ParseDocument(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, draft)
}

// GetDraft handles GET /api/v1/rfq/drafts/:id
func (h *RFQHandler) GetDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid draft id")
		return
	}

	draft, err := h.rfqService.GetDraft(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, draft)
}

// ListDrafts handles GET /api/v1/rfq/drafts
func (h *RFQHandler) ListDrafts(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	drafts, total, err := h.rfqService.ListDrafts(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, drafts, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetDraftSource handles GET /api/v1/rfq/drafts/:id/source
// Returns a presigned download URL for the archived source document.
func (h *RFQHandler) GetDraftSource(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid draft id")
		return
	}

	url, err := h.rfqService.GetSourceURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// exportPageSize is the batch size used when streaming drafts to CSV.
const exportPageSize = 100

// ExportDrafts handles GET /api/v1/rfq/drafts/export
// Streams all drafts as a CSV attachment.
func (h *RFQHandler) ExportDrafts(c *gin.Context) {
	// Fetch the first page before writing headers so repository failures can
	// still produce a JSON error response.
	drafts, total, err := h.rfqService.ListDrafts(c.Request.Context(), 0, exportPageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, csvexport.BuildFilename("rfq_drafts")))

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		log.Printf("RFQHandler.ExportDrafts: writing BOM: %v", err)
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		log.Printf("RFQHandler.ExportDrafts: writing header: %v", err)
		return
	}

	offset := 0
	for {
		if err := w.WriteDrafts(drafts); err != nil {
			log.Printf("RFQHandler.ExportDrafts: writing rows at offset %d: %v", offset, err)
			return
		}
		offset += len(drafts)
		if offset >= total || len(drafts) == 0 {
			break
		}
		drafts, total, err = h.rfqService.ListDrafts(c.Request.Context(), offset, exportPageSize)
		if err != nil {
			log.Printf("RFQHandler.ExportDrafts: listing drafts at offset %d: %v", offset, err)
			return
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("RFQHandler.ExportDrafts: flushing csv: %v", err)
	}
}

// ReviewDraft handles POST /api/v1/rfq/drafts/:id/review
func (h *RFQHandler) ReviewDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid draft id")
		return
	}

	if err := h.rfqService.ReviewDraft(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id, "is_reviewed": true})
}

// DeleteDraft handles DELETE /api/v1/rfq/drafts/:id
func (h *RFQHandler) DeleteDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid draft id")
		return
	}

	if err := h.rfqService.DeleteDraft(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
