// internal/domain/payment/webhook.go
package payment

import (
	"encoding/json"
	"fmt"
)

// Webhook event names delivered by the gateway
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// WebhookEvent is the decoded shape of a gateway webhook delivery
type WebhookEvent struct {
	Event    string `json:"event"`
	IntentID string `json:"-"`
	Payment  struct {
		ID     string `json:"id"`
		Amount int64  `json:"amount"`
		Status string `json:"status"`
	} `json:"-"`
}

// razorpay nests the payment entity two levels deep
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhook decodes a webhook body into the flat event shape the
// checkout layer consumes
func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse webhook body: %w", err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("webhook body has no event field")
	}

	event := &WebhookEvent{Event: env.Event}
	event.IntentID = env.Payload.Payment.Entity.OrderID
	event.Payment.ID = env.Payload.Payment.Entity.ID
	event.Payment.Amount = env.Payload.Payment.Entity.Amount
	event.Payment.Status = env.Payload.Payment.Entity.Status
	return event, nil
}
