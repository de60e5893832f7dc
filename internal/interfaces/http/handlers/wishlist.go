// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/framecraft/storefront-backend/internal/domain/wishlist"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlists *wishlist.Service
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlists *wishlist.Service) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

// List handles GET /wishlist
func (h *WishlistHandler) List(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	items, err := h.wishlists.List(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data":    items,
	})
}

type wishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// Add handles POST /wishlist
func (h *WishlistHandler) Add(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.wishlists.Add(c.Request.Context(), sessionID, req.ProductID); err != nil {
		if errors.Is(err, wishlist.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product saved to wishlist"})
}

// Remove handles DELETE /wishlist/:id
func (h *WishlistHandler) Remove(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	productID, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.wishlists.Remove(c.Request.Context(), sessionID, productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed from wishlist"})
}
