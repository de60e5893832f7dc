// internal/interfaces/http/handlers/settings.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/framecraft/storefront-backend/internal/domain/settings"
)

// SettingsHandler handles business settings endpoints
type SettingsHandler struct {
	settings *settings.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(store *settings.Service) *SettingsHandler {
	return &SettingsHandler{settings: store}
}

// Get handles GET /settings. The storefront uses this for currency
// display and the delivery charge notice.
func (h *SettingsHandler) Get(c *gin.Context) {
	business, err := h.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Settings retrieved successfully",
		"data":    business,
	})
}

// AdminUpdate handles PUT /admin/settings
func (h *SettingsHandler) AdminUpdate(c *gin.Context) {
	var req settings.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.settings.Update(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Settings updated successfully",
		"data":    updated,
	})
}
