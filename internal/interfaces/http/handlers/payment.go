// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/framecraft/storefront-backend/internal/domain/checkout"
	"github.com/framecraft/storefront-backend/internal/domain/payment"
)

// PaymentHandler handles gateway webhook deliveries
type PaymentHandler struct {
	gateway  *payment.Client
	checkout *checkout.Service
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(gateway *payment.Client, svc *checkout.Service) *PaymentHandler {
	return &PaymentHandler{gateway: gateway, checkout: svc}
}

// Webhook handles POST /webhooks/payment. The gateway retries deliveries
// until it sees 2xx, so processing must be idempotent and transient
// failures must return 5xx to get another attempt.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if !h.gateway.VerifyWebhookSignature(body, signature) {
		logrus.Warn("Webhook delivery with invalid signature rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
		return
	}

	event, err := payment.ParseWebhook(body)
	if err != nil {
		logrus.WithError(err).Warn("Malformed webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed webhook body"})
		return
	}

	if err := h.checkout.HandleWebhookEvent(c.Request.Context(), event); err != nil {
		if errors.Is(err, checkout.ErrPaymentCapturedOrderMissing) {
			// Retrying will not bring the snapshot back. Acknowledge so
			// the gateway stops redelivering; the error is already logged
			// for manual reconciliation.
			c.JSON(http.StatusOK, gin.H{"message": "Acknowledged"})
			return
		}
		logrus.WithError(err).WithField("event", event.Event).
			Error("Webhook processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Processed"})
}
