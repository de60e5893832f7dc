// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/framecraft/storefront-backend/internal/domain/order"
	"github.com/framecraft/storefront-backend/internal/domain/settings"
	"github.com/framecraft/storefront-backend/internal/pkg/pdf"
)

// OrderHandler handles customer order lookup and admin order management
type OrderHandler struct {
	orders   *order.Service
	settings *settings.Service
	invoices *pdf.Generator
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, store *settings.Service, invoices *pdf.Generator) *OrderHandler {
	return &OrderHandler{orders: orders, settings: store, invoices: invoices}
}

type lookupRequest struct {
	OrderNumber string `json:"order_number" binding:"required,max=30"`
	Email       string `json:"email" binding:"required,email"`
}

// Lookup handles POST /orders/lookup. Requiring both order number and
// email keeps the endpoint useless for probing order numbers.
func (h *OrderHandler) Lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orders.Lookup(strings.TrimSpace(req.OrderNumber), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// AdminList handles GET /admin/orders
func (h *OrderHandler) AdminList(c *gin.Context) {
	var filter order.ListFilter
	filter.Status = order.Status(c.Query("status"))
	filter.PaymentMethod = order.PaymentMethod(c.Query("payment_method"))
	filter.Email = c.Query("email")
	filter.Page = queryInt(c, "page", 1)
	filter.Limit = queryInt(c, "limit", 20)

	result, err := h.orders.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    result,
	})
}

// AdminGet handles GET /admin/orders/:id
func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	o, err := h.orders.GetByID(id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

type updateStatusRequest struct {
	Status  string `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
	Comment string `json:"comment" binding:"max=1000"`
}

// AdminUpdateStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) AdminUpdateStatus(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orders.UpdateStatus(id, order.Status(req.Status), req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, order.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    o,
	})
}

// AdminInvoice handles GET /admin/orders/:id/invoice
func (h *OrderHandler) AdminInvoice(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	o, err := h.orders.GetByID(id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}

	business, err := h.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load store settings"})
		return
	}

	data, err := h.invoices.Generate(o, business)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoice"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", o.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", data)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	var v int
	if _, err := fmt.Sscanf(c.Query(name), "%d", &v); err != nil {
		return fallback
	}
	return v
}
