package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suptia/backend/internal/domain"
	"github.com/suptia/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	productService *usecase.ProductService
}

// NewHandler creates a new HTTP handler
func NewHandler(productService *usecase.ProductService) *Handler {
	return &Handler{productService: productService}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "suptia-backend",
		"version": "1.0.0",
	})
}

// syncRequest is the price sync request body
type syncRequest struct {
	Identifier domain.Identifier `json:"identifier" binding:"required"`
	Sources    []domain.Source   `json:"sources,omitempty"`
}

// SyncPrices handles POST /api/v1/prices/sync. It fetches current prices
// from the requested marketplaces and returns per-source results with the
// computed effective price attached.
func (h *Handler) SyncPrices(c *gin.Context) {
	if h.productService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price sync not configured"})
		return
	}

	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.productService.SyncPrices(c.Request.Context(), req.Identifier, req.Sources)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one identifier (jan/asin/ean/itemCode) is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// validateRequest is the ingredient validation request body
type validateRequest struct {
	Ingredients []domain.ProductIngredientAmount `json:"ingredients" binding:"required"`
	ProductName string                           `json:"productName,omitempty"`
}

// ValidateIngredients handles POST /api/v1/ingredients/validate. It runs
// the correction rules over the submitted list and returns corrected
// amounts plus warnings, without touching the store.
func (h *Handler) ValidateIngredients(c *gin.Context) {
	if h.productService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "validation not configured"})
		return
	}

	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result := h.productService.Validator().ValidateIngredients(req.Ingredients, req.ProductName)
	c.JSON(http.StatusOK, result)
}

// GetIngredientReference handles GET /api/v1/ingredients/:name. It returns
// the canonical reference record for an ingredient name, alias-resolved.
func (h *Handler) GetIngredientReference(c *gin.Context) {
	name := c.Param("name")
	ref := usecase.LookupIngredientReference(name)
	if _, ok := usecase.LookupRDA(name); !ok && ref.DosingUnit != domain.DosingCount {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reference data for ingredient: " + name})
		return
	}
	c.JSON(http.StatusOK, ref)
}

// GetProductScore handles GET /api/v1/products/:id/score
func (h *Handler) GetProductScore(c *gin.Context) {
	if h.productService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scoring not configured"})
		return
	}

	id := c.Param("id")
	score, err := h.productService.GetProductScore(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, domain.ErrInsufficientData):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient data to score this product"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, score)
}
