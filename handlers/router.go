package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterConfig collects the handlers and middleware mounted by NewRouter.
// A nil Admin or Users disables the admin routes or authentication.
type RouterConfig struct {
	Documents *DocumentHandler
	Queries   *QueryHandler
	Admin     *AdminHandler
	Users     APIUserStore
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
}

// NewRouter builds the gin engine serving the HTTP API
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	if cfg.Users != nil {
		api.Use(APIKeyAuth(cfg.Users, cfg.Logger))
	}
	{
		if cfg.Documents != nil {
			api.POST("/documents", cfg.Documents.UploadDocument)
			api.GET("/documents/:id", cfg.Documents.GetDocument)
			api.PUT("/documents/:id", cfg.Documents.UpdateDocument)
			api.DELETE("/documents/:id", cfg.Documents.DeleteDocument)
			api.POST("/documents/:id/reprocess", cfg.Documents.ReprocessDocument)
			api.GET("/jobs/:id", cfg.Documents.GetJob)
		}

		if cfg.Queries != nil {
			api.POST("/query", cfg.Queries.Query)
			api.POST("/search", cfg.Queries.Search)
			api.POST("/research", cfg.Queries.Research)
			api.GET("/cases/:caseNumber", cfg.Queries.CaseAnalysis)
			api.GET("/citations/analysis", cfg.Queries.CitationAnalysis)
			api.GET("/sections", cfg.Queries.Sections)
			api.GET("/parties", cfg.Queries.PartyDocuments)
		}

		if cfg.Admin != nil {
			api.GET("/admin/schema", cfg.Admin.GetSchema)
			api.POST("/admin/schema", cfg.Admin.EnsureSchema)
			api.POST("/admin/backups", cfg.Admin.CreateBackup)
			api.POST("/admin/backups/:id/restore", cfg.Admin.RestoreBackup)
		}
	}
	return r
}
