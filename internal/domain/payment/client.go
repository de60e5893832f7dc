// internal/domain/payment/client.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/framecraft/storefront-backend/internal/config"
)

// ErrGatewayUnavailable wraps transport-level failures talking to the gateway
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Client talks to the Razorpay Orders API over HTTP basic auth
type Client struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

// NewClient creates a Razorpay API client from configuration
func NewClient(cfg *config.Config) *Client {
	baseURL := cfg.External.Razorpay.BaseURL
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	return &Client{
		keyID:         cfg.External.Razorpay.KeyID,
		keySecret:     cfg.External.Razorpay.KeySecret,
		webhookSecret: cfg.External.Razorpay.WebhookSecret,
		baseURL:       baseURL,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

// KeyID returns the publishable key the browser widget needs
func (c *Client) KeyID() string {
	return c.keyID
}

// Intent is a gateway-side payment order awaiting capture
type Intent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateIntent registers an order with the gateway and returns the intent
// the frontend widget opens. Amount is in minor currency units, which is
// also what the gateway expects.
func (c *Client) CreateIntent(ctx context.Context, amount int64, currency, receipt string) (*Intent, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Payment gateway request failed")
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		logrus.WithFields(logrus.Fields{
			"status":  resp.StatusCode,
			"receipt": receipt,
		}).Error("Payment gateway rejected intent creation")
		return nil, fmt.Errorf("%w: gateway returned status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var intent Intent
	if err := json.Unmarshal(respBody, &intent); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrGatewayUnavailable, err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("%w: gateway returned no intent id", ErrGatewayUnavailable)
	}

	logrus.WithFields(logrus.Fields{
		"intent_id": intent.ID,
		"amount":    intent.Amount,
		"currency":  intent.Currency,
	}).Info("Payment intent created")
	return &intent, nil
}

// VerifyPaymentSignature checks the signature the checkout widget returns
// after a successful capture
func (c *Client) VerifyPaymentSignature(intentID, paymentID, signature string) bool {
	return verifyHMAC([]byte(intentID+"|"+paymentID), signature, c.keySecret)
}

// VerifyWebhookSignature checks the signature header on a webhook delivery
// against the raw request body
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	return verifyHMAC(body, signature, c.webhookSecret)
}
