package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iammike/cardcheck/internal/domain"
	"github.com/iammike/cardcheck/internal/usecase"
	"go.uber.org/zap"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	lookup *usecase.LookupService
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil lookup service leaves the
// API routes answering 501.
func NewHandler(lookup *usecase.LookupService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		lookup: lookup,
		logger: logger,
	}
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ListingRequest carries a scraped listing
type ListingRequest struct {
	Title         string               `json:"title"`
	ItemSpecifics domain.ItemSpecifics `json:"itemSpecifics"`
}

// SearchRequest is a single catalog search
type SearchRequest struct {
	Query        string `json:"query" binding:"required"`
	IsSportsCard bool   `json:"isSportsCard"`
}

// PricesRequest names a catalog item page
type PricesRequest struct {
	URL string `json:"url" binding:"required"`
}

// SelectRequest prices a candidate the caller picked for a record
type SelectRequest struct {
	Record *domain.CardRecord `json:"record" binding:"required"`
	URL    string             `json:"url" binding:"required"`
}

// ExtractResponse is what the pipeline derives from a listing before any catalog call
type ExtractResponse struct {
	Success      bool               `json:"success"`
	Record       *domain.CardRecord `json:"record"`
	Category     domain.Category    `json:"category"`
	IsSportsCard bool               `json:"isSportsCard"`
	Site         domain.Site        `json:"site"`
	ItemKind     string             `json:"itemKind"`
	Query        string             `json:"query"`
	Summary      domain.CardSummary `json:"summary"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cardcheck",
		"version": "1.0.0",
	})
}

// ExtractCard handles record extraction from a listing
func (h *Handler) ExtractCard(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req ListingRequest
	if !bindListing(c, &req) {
		return
	}

	session := h.lookup.NewSession(req.ItemSpecifics, req.Title)
	c.JSON(http.StatusOK, ExtractResponse{
		Success:      true,
		Record:       session.Record,
		Category:     session.Category,
		IsSportsCard: session.IsSportsCard,
		Site:         session.Site,
		ItemKind:     h.lookup.Classifier().ItemKind(session.Record),
		Query:        h.lookup.Query(session),
		Summary:      h.lookup.Classifier().Summarize(session.Record),
	})
}

// Search handles a single catalog search. An exact redirect is answered with
// the bare singleton array; otherwise results are wrapped in an object.
func (h *Handler) Search(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "query is required")
		return
	}

	resp, err := h.lookup.Search(c.Request.Context(), req.Query, req.IsSportsCard)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if resp.ExactMatch {
		c.JSON(http.StatusOK, resp.Results)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"query":   resp.Query,
		"site":    resp.Site,
		"results": resp.Results,
	})
}

// Prices returns the raw price table of a catalog item
func (h *Handler) Prices(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req PricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "url is required")
		return
	}

	table, err := h.lookup.FetchPrices(c.Request.Context(), req.URL)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// Lookup runs the full pipeline for a listing
func (h *Handler) Lookup(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req ListingRequest
	if !bindListing(c, &req) {
		return
	}

	session := h.lookup.NewSession(req.ItemSpecifics, req.Title)
	result, err := h.lookup.Lookup(c.Request.Context(), session)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			// the attempts are still useful to the caller
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "no match found in catalog",
				"result":  result,
			})
			return
		}
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// SelectCandidate prices the candidate a caller picked for a record
func (h *Handler) SelectCandidate(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "record and url are required")
		return
	}

	session := h.lookup.SessionFor(req.Record)
	prices, err := h.lookup.Select(c.Request.Context(), session, req.URL)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"prices":  prices,
		"summary": h.lookup.Classifier().Summarize(session.Record),
	})
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.lookup == nil {
		respondError(c, http.StatusNotImplemented, "lookup service not configured")
		return false
	}
	return true
}

func bindListing(c *gin.Context, req *ListingRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	if strings.TrimSpace(req.Title) == "" && len(req.ItemSpecifics) == 0 {
		respondError(c, http.StatusBadRequest, "title or itemSpecifics is required")
		return false
	}
	return true
}

// handleError maps domain sentinels onto status codes
func (h *Handler) handleError(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	respondError(c, status, message)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, "no match found in catalog"
	case errors.Is(err, domain.ErrNoPrices):
		return http.StatusNotFound, "no price data for this item"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate limit exceeded"
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrCatalogFailure):
		return http.StatusBadGateway, "catalog temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: message})
}
