package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/exportlens/backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// ProductConsolidator groups product listings into categorized results
type ProductConsolidator interface {
	Consolidate(ctx context.Context, products []domain.ProductVariant) ([]domain.CategoryResult, error)
	Catalog() []domain.ProductCategory
}

// HSCodeAdvisor suggests HS codes and walks the HS hierarchy
type HSCodeAdvisor interface {
	GetSuggestedHSCodes(ctx context.Context, req domain.HSSuggestionRequest) ([]domain.HSCodeSuggestion, error)
	GetChildren(ctx context.Context, code string) []domain.HSCodeSuggestion
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	consolidator ProductConsolidator
	hsCodes      HSCodeAdvisor
}

// NewHandler creates a new HTTP handler. Either service may be nil, in which
// case its endpoints answer 503.
func NewHandler(consolidator ProductConsolidator, hsCodes HSCodeAdvisor) *Handler {
	return &Handler{consolidator: consolidator, hsCodes: hsCodes}
}

// ConsolidateRequest is the body of POST /api/v1/products/consolidate
type ConsolidateRequest struct {
	Products []domain.ProductVariant `json:"products"`
}

// ConsolidateResponse is returned by the consolidate endpoint
type ConsolidateResponse struct {
	RunID   string                  `json:"runId"`
	Results []domain.CategoryResult `json:"results"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "exportlens-backend",
		"version": "1.0.0",
	})
}

// ConsolidateProducts clusters and categorizes a batch of product listings
func (h *Handler) ConsolidateProducts(c *gin.Context) {
	if h.consolidator == nil {
		serviceUnavailable(c)
		return
	}

	var req ConsolidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	results, err := h.consolidator.Consolidate(c.Request.Context(), req.Products)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ConsolidateResponse{
		RunID:   c.GetString(requestIDKey),
		Results: results,
	})
}

// SuggestHSCodes ranks HS codes for a product in a category
func (h *Handler) SuggestHSCodes(c *gin.Context) {
	if h.hsCodes == nil {
		serviceUnavailable(c)
		return
	}

	var req domain.HSSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: category is required"})
		return
	}

	suggestions, err := h.hsCodes.GetSuggestedHSCodes(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// GetHSChildren lists the codes one level below an HS code
func (h *Handler) GetHSChildren(c *gin.Context) {
	if h.hsCodes == nil {
		serviceUnavailable(c)
		return
	}

	code := domain.NormalizeHSCode(c.Param("code"))
	c.JSON(http.StatusOK, gin.H{
		"code":     code,
		"children": h.hsCodes.GetChildren(c.Request.Context(), code),
	})
}

// ListCategories returns the category catalog
func (h *Handler) ListCategories(c *gin.Context) {
	if h.consolidator == nil {
		serviceUnavailable(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": h.consolidator.Catalog()})
}

// writeError maps service errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case domain.IsInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timed out"})
	default:
		log.Printf("[HTTP] request=%s unexpected error: %v", c.GetString(requestIDKey), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func serviceUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service not configured"})
}
