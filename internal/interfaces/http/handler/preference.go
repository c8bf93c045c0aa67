package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/giftwell/backend/internal/application/gifting"
	"github.com/giftwell/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PreferenceHandler handles stored UI preference endpoints
type PreferenceHandler struct {
	BaseHandler
	preferenceService *gifting.PreferenceService
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(preferenceService *gifting.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService}
}

// Save handles PUT /preferences/:key. The body is stored verbatim as a
// JSON document.
func (h *PreferenceHandler) Save(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if !json.Valid(body) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body must be valid JSON")
		return
	}

	if err := h.preferenceService.Save(c.Request.Context(), c.Param("key"), body); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Load handles GET /preferences/:key
func (h *PreferenceHandler) Load(c *gin.Context) {
	value, err := h.preferenceService.Load(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, value)
}

// RegisterRoutes registers preference routes on the API group
func (h *PreferenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	prefs := rg.Group("/preferences")
	{
		prefs.PUT("/:key", h.Save)
		prefs.GET("/:key", h.Load)
	}
}
