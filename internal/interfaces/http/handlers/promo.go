// internal/interfaces/http/handlers/promo.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/framecraft/storefront-backend/internal/domain/cart"
	"github.com/framecraft/storefront-backend/internal/domain/promo"
)

// PromoHandler handles promo code endpoints
type PromoHandler struct {
	promos *promo.Service
	carts  *cart.Service
}

// NewPromoHandler creates a new promo handler
func NewPromoHandler(promos *promo.Service, carts *cart.Service) *PromoHandler {
	return &PromoHandler{promos: promos, carts: carts}
}

type applyPromoRequest struct {
	Code string `json:"code" binding:"required,max=50"`
}

// Apply handles POST /promo/apply
func (h *PromoHandler) Apply(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	var req applyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	view, err := h.carts.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart"})
		return
	}

	applied, err := h.promos.Apply(c.Request.Context(), sessionID, req.Code, view.Subtotal)
	if err != nil {
		var verr *promo.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  verr.Message,
				"reason": verr.Reason,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply promo code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promo code applied",
		"data":    applied,
	})
}

// Get handles GET /promo
func (h *PromoHandler) Get(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	view, err := h.carts.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart"})
		return
	}

	applied, err := h.promos.GetApplied(c.Request.Context(), sessionID, view.Subtotal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve promo code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Applied promo retrieved",
		"data":    applied,
	})
}

// Remove handles DELETE /promo
func (h *PromoHandler) Remove(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	if err := h.promos.Remove(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove promo code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Promo code removed"})
}

// AdminList handles GET /admin/promos
func (h *PromoHandler) AdminList(c *gin.Context) {
	promos, err := h.promos.AdminList(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve promo codes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promo codes retrieved successfully",
		"data":    promos,
	})
}

// AdminCreate handles POST /admin/promos
func (h *PromoHandler) AdminCreate(c *gin.Context) {
	var req promo.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.promos.AdminCreate(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Promo code created successfully",
		"data":    created,
	})
}

// AdminUpdate handles PUT /admin/promos/:id
func (h *PromoHandler) AdminUpdate(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promo code ID"})
		return
	}

	var req promo.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.promos.AdminUpdate(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, promo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Promo code not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promo code updated successfully",
		"data":    updated,
	})
}

// AdminDelete handles DELETE /admin/promos/:id
func (h *PromoHandler) AdminDelete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promo code ID"})
		return
	}

	if err := h.promos.AdminDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, promo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Promo code not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete promo code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Promo code deleted successfully"})
}
