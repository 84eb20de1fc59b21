package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rfqforge/internal/domain"
	"rfqforge/internal/parser"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response. Details carries kind-specific
// structure, e.g. the candidate and scores of a low-confidence rejection.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// HandleError maps an error to an HTTP response. Extraction errors keep their
// taxonomy all the way out so the UI can render kind-specific messaging.
func HandleError(c *gin.Context, err error) {
	var lowConf *parser.LowConfidenceError
	if errors.As(err, &lowConf) {
		c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Success: false,
			Error: &APIError{
				Code:    "LOW_CONFIDENCE",
				Message: lowConf.Error(),
				Details: gin.H{
					"candidate":           lowConf.Candidate,
					"material_confidence": lowConf.MaterialConfidence,
					"industry_confidence": lowConf.IndustryConfidence,
				},
			},
		})
		return
	}

	var parseErr *parser.ParsingError
	if errors.As(err, &parseErr) {
		c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Success: false,
			Error: &APIError{
				Code:    "UNPARSEABLE_RFQ",
				Message: parseErr.Error(),
				Details: gin.H{"field": parseErr.Field},
			},
		})
		return
	}

	var missingCred *parser.MissingCredentialError
	if errors.As(err, &missingCred) {
		RespondError(c, http.StatusServiceUnavailable, "PARSER_NOT_CONFIGURED", "no extraction API key configured")
		return
	}

	var svcErr *parser.ExternalServiceError
	if errors.As(err, &svcErr) {
		status := http.StatusBadGateway
		code := "UPSTREAM_ERROR"
		if svcErr.Timeout {
			status = http.StatusGatewayTimeout
			code = "UPSTREAM_TIMEOUT"
		}
		RespondError(c, status, code, svcErr.Error())
		return
	}

	status, code, msg := mapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%v] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}

// mapDomainError translates domain errors to HTTP status codes and error codes.
func mapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrEmptyText):
		return http.StatusBadRequest, "EMPTY_TEXT", "rfq text is empty"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, xlsx, csv, txt"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrNoTextExtracted):
		return http.StatusUnprocessableEntity, "NO_TEXT_EXTRACTED", "no text could be extracted from document"
	case errors.Is(err, domain.ErrAlreadyReviewed):
		return http.StatusConflict, "ALREADY_REVIEWED", "draft has already been reviewed"
	case errors.Is(err, domain.ErrNoSourceArchived):
		return http.StatusNotFound, "NO_SOURCE_ARCHIVED", "draft has no archived source document"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}
