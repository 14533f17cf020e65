package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"legalrag-backend/models"
	"legalrag-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultSectionLimit = 5

// QueryHandler handles question answering, search and research requests
type QueryHandler struct {
	queries QueryService
	logger  *zap.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queries QueryService, logger *zap.Logger) *QueryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryHandler{queries: queries, logger: logger}
}

// QueryBody is the request body of POST /api/query
type QueryBody struct {
	Question   string                `json:"question" binding:"required"`
	SearchType models.SearchType     `json:"search_type"`
	Filters    *models.SearchFilters `json:"filters"`
	Limit      int                   `json:"limit"`
	Alpha      *float32              `json:"alpha"`
}

// Query handles POST /api/query
func (h *QueryHandler) Query(c *gin.Context) {
	var body QueryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.queries.Query(c.Request.Context(), service.QueryRequest{
		Question:   body.Question,
		SearchType: body.SearchType,
		Filters:    body.Filters,
		Limit:      body.Limit,
		Alpha:      body.Alpha,
	})
	if err != nil {
		h.queryError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// SearchBody is the request body of POST /api/search
type SearchBody struct {
	Query      string               `json:"query" binding:"required"`
	SearchType models.SearchType    `json:"search_type"`
	Filters    models.SearchFilters `json:"filters"`
	Limit      int                  `json:"limit"`
	Alpha      *float32             `json:"alpha"`
}

// Search handles POST /api/search
func (h *QueryHandler) Search(c *gin.Context) {
	var body SearchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	hits, err := h.queries.AdvancedSearch(c.Request.Context(), service.AdvancedSearchRequest{
		Query:      body.Query,
		Filters:    body.Filters,
		SearchType: body.SearchType,
		Alpha:      body.Alpha,
		Limit:      body.Limit,
	})
	if err != nil {
		h.queryError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"results": hits, "count": len(hits)})
}

// ResearchBody is the request body of POST /api/research
type ResearchBody struct {
	Topic        string `json:"topic" binding:"required"`
	PracticeArea string `json:"practice_area"`
}

// Research handles POST /api/research
func (h *QueryHandler) Research(c *gin.Context) {
	var body ResearchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.queries.LegalResearch(c.Request.Context(), service.LegalResearchRequest{
		Topic:        body.Topic,
		PracticeArea: body.PracticeArea,
	})
	if err != nil {
		h.queryError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// CaseAnalysis handles GET /api/cases/:caseNumber. An unknown case is
// reported with 404 and the analysis body, which carries the reason.
func (h *QueryHandler) CaseAnalysis(c *gin.Context) {
	result, err := h.queries.CaseAnalysis(c.Request.Context(), c.Param("caseNumber"))
	if err != nil {
		h.queryError(c, err)
		return
	}
	if !result.Found() {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"data":    result,
			"error": gin.H{
				"code":    "CASE_NOT_FOUND",
				"message": result.Error,
			},
		})
		return
	}
	respondOK(c, http.StatusOK, result)
}

// CitationAnalysis handles GET /api/citations/analysis?citation=
func (h *QueryHandler) CitationAnalysis(c *gin.Context) {
	citation := strings.TrimSpace(c.Query("citation"))
	if citation == "" {
		respondError(c, http.StatusBadRequest, "MISSING_CITATION", "citation query parameter is required")
		return
	}

	result, err := h.queries.CitationAnalysis(c.Request.Context(), citation)
	if err != nil {
		h.queryError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// Sections handles GET /api/sections?q=&limit=
func (h *QueryHandler) Sections(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, http.StatusBadRequest, "MISSING_QUERY", "q query parameter is required")
		return
	}
	limit := defaultSectionLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = n
	}

	hits, err := h.queries.SearchSections(c.Request.Context(), query, limit)
	if err != nil {
		h.queryError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"results": hits, "count": len(hits)})
}

// PartyDocuments handles GET /api/parties?name=&name=&limit=
func (h *QueryHandler) PartyDocuments(c *gin.Context) {
	names := c.QueryArray("name")
	if len(names) == 0 {
		respondError(c, http.StatusBadRequest, "MISSING_NAME", "at least one name query parameter is required")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	hits, err := h.queries.PartyDocuments(c.Request.Context(), names, limit)
	if err != nil {
		h.queryError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"results": hits, "count": len(hits)})
}

func (h *QueryHandler) queryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyQuestion),
		errors.Is(err, service.ErrEmptyTopic),
		errors.Is(err, service.ErrInvalidSearchType),
		errors.Is(err, service.ErrInvalidAlpha):
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	default:
		h.logger.Error("Query request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusBadGateway, "SEARCH_FAILED", err.Error())
	}
}
