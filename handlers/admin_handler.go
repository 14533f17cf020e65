package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes schema management and backups
type AdminHandler struct {
	schema SchemaAdmin
	logger *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(schema SchemaAdmin, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{schema: schema, logger: logger}
}

// GetSchema handles GET /api/admin/schema
func (h *AdminHandler) GetSchema(c *gin.Context) {
	classes, err := h.schema.SchemaInfo(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to read schema", zap.Error(err))
		respondError(c, http.StatusBadGateway, "STORE_UNAVAILABLE", err.Error())
		return
	}
	respondOK(c, http.StatusOK, gin.H{"classes": classes})
}

// EnsureSchema handles POST /api/admin/schema
func (h *AdminHandler) EnsureSchema(c *gin.Context) {
	created, err := h.schema.EnsureSchema(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to ensure schema", zap.Error(err))
		respondError(c, http.StatusBadGateway, "SCHEMA_FAILED", err.Error())
		return
	}
	if created == nil {
		created = []string{}
	}
	respondOK(c, http.StatusOK, gin.H{"created": created})
}

// BackupBody is the optional body of POST /api/admin/backups
type BackupBody struct {
	ID string `json:"id"`
}

// CreateBackup handles POST /api/admin/backups. Without an ID one is derived
// from the current time.
func (h *AdminHandler) CreateBackup(c *gin.Context) {
	var body BackupBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}
	if body.ID == "" {
		body.ID = "legal-docs-" + time.Now().UTC().Format("20060102-150405")
	}

	result, err := h.schema.Backup(c.Request.Context(), body.ID)
	if err != nil {
		h.logger.Error("Backup failed", zap.String("backup_id", body.ID), zap.Error(err))
		respondError(c, http.StatusBadGateway, "BACKUP_FAILED", err.Error())
		return
	}
	respondOK(c, http.StatusCreated, result)
}

// RestoreBackup handles POST /api/admin/backups/:id/restore
func (h *AdminHandler) RestoreBackup(c *gin.Context) {
	result, err := h.schema.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Restore failed", zap.String("backup_id", c.Param("id")), zap.Error(err))
		respondError(c, http.StatusBadGateway, "RESTORE_FAILED", err.Error())
		return
	}
	respondOK(c, http.StatusOK, result)
}
