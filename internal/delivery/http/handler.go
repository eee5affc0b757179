package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricescout/backend/internal/domain"
	"github.com/pricescout/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	priceService *usecase.PriceService
	contextStore domain.ContextStore
	searchReady  bool
	llmReady     bool
}

// NewHandler creates a new HTTP handler
func NewHandler(priceService *usecase.PriceService, contextStore domain.ContextStore, searchReady, llmReady bool) *Handler {
	return &Handler{
		priceService: priceService,
		contextStore: contextStore,
		searchReady:  searchReady,
		llmReady:     llmReady,
	}
}

// HealthCheck returns the health status of the API and which external
// capabilities are configured.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricescout-backend",
		"version": "1.0.0",
		"capabilities": gin.H{
			"search": h.searchReady,
			"llm":    h.llmReady,
		},
	})
}

// searchPriceRequest is the body for POST /api/v1/price/search
type searchPriceRequest struct {
	Item   string `json:"item" binding:"required"`
	UserID string `json:"userId,omitempty"`
}

// SearchPrice handles price search requests. The lookup itself never fails:
// the service always answers with a structured report.
func (h *Handler) SearchPrice(c *gin.Context) {
	if h.priceService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price service not configured"})
		return
	}

	var req searchPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item is required"})
		return
	}

	report := h.priceService.SearchPrice(c.Request.Context(), req.Item)

	// Retain the latest successful lookup as conversational context for
	// the caller's follow-up flows.
	if report.Success && req.UserID != "" && h.contextStore != nil {
		pc := &domain.PriceContext{Item: report.Item, PriceRange: report.PriceRange}
		if err := h.contextStore.SetContext(c.Request.Context(), req.UserID, pc); err != nil {
			log.Printf("[HTTP] Failed to store context for user %s: %v", req.UserID, err)
		}
	}

	c.JSON(http.StatusOK, report)
}

// GetContext returns the user's last searched item and price range.
func (h *Handler) GetContext(c *gin.Context) {
	if h.contextStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "context store not configured"})
		return
	}

	userID := c.Param("userId")
	pc, err := h.contextStore.GetContext(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no context for user"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pc)
}
