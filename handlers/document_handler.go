package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"legalrag-backend/models"
	"legalrag-backend/repository"
	"legalrag-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentHandler handles HTTP requests for documents and ingestion jobs
type DocumentHandler struct {
	documents   DocumentService
	maxFileSize int64
	logger      *zap.Logger
}

// NewDocumentHandler creates a new document handler. Uploads larger than
// maxFileSize bytes are refused before they reach the ingestion pipeline.
func NewDocumentHandler(documents DocumentService, maxFileSize int64, logger *zap.Logger) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentHandler{documents: documents, maxFileSize: maxFileSize, logger: logger}
}

// UploadDocument handles POST /api/documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize))
		return
	}

	var metadata map[string]interface{}
	if raw := c.PostForm("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_METADATA", "metadata must be a JSON object")
			return
		}
	}

	dir, err := os.MkdirTemp("", "legalrag-upload-")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", err.Error())
		return
	}
	defer os.RemoveAll(dir)

	name := filepath.Base(fileHeader.Filename)
	path := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(fileHeader, path); err != nil {
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", fmt.Sprintf("Failed to save upload: %v", err))
		return
	}

	result, err := h.documents.ProcessDocument(c.Request.Context(), service.ProcessDocumentRequest{
		Path:       path,
		Metadata:   metadata,
		SourceName: name,
	})
	if err != nil {
		h.ingestionError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, result)
}

// GetDocument handles GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.documents.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.documentError(c, err)
		return
	}
	respondOK(c, http.StatusOK, doc)
}

// UpdateDocument handles PUT /api/documents/:id
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	var update models.DocumentUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	doc, err := h.documents.UpdateDocument(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		h.documentError(c, err)
		return
	}
	respondOK(c, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	if err := h.documents.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		h.documentError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

// ReprocessRequest represents the optional body of a reprocess call
type ReprocessRequest struct {
	Metadata map[string]interface{} `json:"metadata"`
}

// ReprocessDocument handles POST /api/documents/:id/reprocess
func (h *DocumentHandler) ReprocessDocument(c *gin.Context) {
	var req ReprocessRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	result, err := h.documents.ReprocessArchived(c.Request.Context(), c.Param("id"), req.Metadata)
	if err != nil {
		if errors.Is(err, service.ErrNoArchivedSource) {
			respondError(c, http.StatusConflict, "NO_ARCHIVED_SOURCE", err.Error())
			return
		}
		h.ingestionError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// GetJob handles GET /api/jobs/:id
func (h *DocumentHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid job ID format")
		return
	}

	job, err := h.documents.GetJob(c.Request.Context(), id)
	switch {
	case errors.Is(err, repository.ErrJobNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Job not found")
	case errors.Is(err, service.ErrJobsDisabled):
		respondError(c, http.StatusNotImplemented, "JOBS_DISABLED", err.Error())
	case err != nil:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	default:
		respondOK(c, http.StatusOK, job)
	}
}

func (h *DocumentHandler) documentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrDocumentNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
	case errors.Is(err, service.ErrInvalidMetadata):
		respondError(c, http.StatusBadRequest, "INVALID_METADATA", err.Error())
	default:
		h.logger.Error("Document request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func (h *DocumentHandler) ingestionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, service.ErrUnsupportedFormat):
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", err.Error())
	case errors.Is(err, service.ErrEmptyText):
		respondError(c, http.StatusUnprocessableEntity, "EMPTY_DOCUMENT", err.Error())
	case errors.Is(err, service.ErrInvalidMetadata):
		respondError(c, http.StatusBadRequest, "INVALID_METADATA", err.Error())
	case errors.Is(err, repository.ErrDocumentNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
	default:
		h.logger.Error("Ingestion failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INGESTION_FAILED", err.Error())
	}
}
