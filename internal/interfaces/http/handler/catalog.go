package handler

import (
	"github.com/giftwell/backend/internal/application/gifting"
	"github.com/gin-gonic/gin"
)

// CatalogHandler handles gift catalog endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *gifting.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *gifting.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List handles GET /catalog/gifts
func (h *CatalogHandler) List(c *gin.Context) {
	gifts, err := h.catalogService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gifts)
}

// RegisterRoutes registers catalog routes on the API group
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/gifts", h.List)
	}
}
