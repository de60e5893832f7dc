// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/framecraft/storefront-backend/internal/domain/checkout"
	"github.com/framecraft/storefront-backend/internal/domain/order"
	"github.com/framecraft/storefront-backend/internal/domain/payment"
	"github.com/framecraft/storefront-backend/internal/domain/promo"
)

// CheckoutHandler handles quote and order placement endpoints
type CheckoutHandler struct {
	checkout *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc}
}

// Quote handles GET /checkout/quote
func (h *CheckoutHandler) Quote(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	quote, err := h.checkout.GetQuote(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute totals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote computed successfully",
		"data":    quote,
	})
}

// SubmitCOD handles POST /checkout/cod
func (h *CheckoutHandler) SubmitCOD(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	var info checkout.CustomerInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	placed, err := h.checkout.SubmitCOD(c.Request.Context(), sessionID, &info)
	if err != nil {
		h.checkoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    placed,
	})
}

// InitiatePayment handles POST /checkout/payment
func (h *CheckoutHandler) InitiatePayment(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	var info checkout.CustomerInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	init, err := h.checkout.InitiatePayment(c.Request.Context(), sessionID, &info)
	if err != nil {
		h.checkoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment initiated",
		"data":    init,
	})
}

type confirmPaymentRequest struct {
	IntentID  string `json:"intent_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// ConfirmPayment handles POST /checkout/payment/confirm
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	placed, err := h.checkout.ConfirmPayment(c.Request.Context(), req.IntentID, req.PaymentID, req.Signature)
	if err != nil {
		h.checkoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment confirmed and order placed",
		"data":    placed,
	})
}

type failPaymentRequest struct {
	IntentID string `json:"intent_id" binding:"required"`
}

// FailPayment handles POST /checkout/payment/fail. The frontend calls it
// when the customer dismisses the gateway widget, so the pending intent is
// discarded while the cart and applied promo stay for a retry.
func (h *CheckoutHandler) FailPayment(c *gin.Context) {
	var req failPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.checkout.FailPayment(c.Request.Context(), req.IntentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment cancelled, your cart is unchanged"})
}

func (h *CheckoutHandler) checkoutError(c *gin.Context, err error) {
	var verr *promo.ValidationError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Your cart is empty"})
	case errors.Is(err, checkout.ErrOnlinePaymentsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Online payments are not available"})
	case errors.Is(err, checkout.ErrInvalidPaymentSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
	case errors.Is(err, checkout.ErrPaymentCapturedOrderMissing):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Your payment was received but the order could not be created. Please contact support with your payment reference.",
		})
	case errors.Is(err, order.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "An item in your cart is no longer available in the requested quantity"})
	case errors.Is(err, payment.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway is unavailable, please try again"})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  verr.Message,
			"reason": verr.Reason,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
	}
}
