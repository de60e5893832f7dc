// internal/interfaces/http/handlers/inquiry.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/framecraft/storefront-backend/internal/domain/inquiry"
	"github.com/framecraft/storefront-backend/internal/pkg/email"
)

// InquiryHandler handles contact form and newsletter endpoints
type InquiryHandler struct {
	inquiries *inquiry.Service
	mailer    *email.Service
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(inquiries *inquiry.Service, mailer *email.Service) *InquiryHandler {
	return &InquiryHandler{inquiries: inquiries, mailer: mailer}
}

// Create handles POST /contact
func (h *InquiryHandler) Create(c *gin.Context) {
	var req inquiry.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.inquiries.Create(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit inquiry"})
		return
	}

	if h.mailer != nil {
		go func(to, name, message string) {
			if err := h.mailer.SendContactAcknowledgement(to, name, message); err != nil {
				logrus.WithError(err).Warn("Failed to send contact acknowledgement email")
			}
		}(created.Email, created.Name, created.Message)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Thanks for reaching out, we will get back to you soon",
		"data":    created,
	})
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe handles POST /newsletter/subscribe
func (h *InquiryHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.inquiries.Subscribe(req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscribed to the newsletter"})
}

// AdminList handles GET /admin/inquiries
func (h *InquiryHandler) AdminList(c *gin.Context) {
	unresolvedOnly := c.Query("unresolved") == "true"

	inquiries, err := h.inquiries.List(unresolvedOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inquiries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inquiries retrieved successfully",
		"data":    inquiries,
	})
}

// AdminResolve handles PUT /admin/inquiries/:id/resolve
func (h *InquiryHandler) AdminResolve(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inquiry ID"})
		return
	}

	resolved, err := h.inquiries.Resolve(id)
	if err != nil {
		if errors.Is(err, inquiry.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inquiry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve inquiry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inquiry resolved",
		"data":    resolved,
	})
}

// AdminSubscribers handles GET /admin/newsletter/subscribers
func (h *InquiryHandler) AdminSubscribers(c *gin.Context) {
	subs, err := h.inquiries.Subscribers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subscribers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Subscribers retrieved successfully",
		"data":    subs,
	})
}
