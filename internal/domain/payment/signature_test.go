package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framecraft/storefront-backend/internal/config"
)

func hmacHex(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func testClient() *Client {
	cfg := &config.Config{}
	cfg.External.Razorpay.KeyID = "rzp_test_key"
	cfg.External.Razorpay.KeySecret = "key_secret"
	cfg.External.Razorpay.WebhookSecret = "webhook_secret"
	return NewClient(cfg)
}

func TestVerifyPaymentSignature(t *testing.T) {
	c := testClient()
	valid := hmacHex("order_abc|pay_xyz", "key_secret")

	assert.True(t, c.VerifyPaymentSignature("order_abc", "pay_xyz", valid))
	assert.False(t, c.VerifyPaymentSignature("order_abc", "pay_xyz", "deadbeef"))
	assert.False(t, c.VerifyPaymentSignature("order_other", "pay_xyz", valid))
	assert.False(t, c.VerifyPaymentSignature("order_abc", "pay_xyz", ""))
}

func TestVerifyWebhookSignature(t *testing.T) {
	c := testClient()
	body := []byte(`{"event":"payment.captured"}`)
	valid := hmacHex(string(body), "webhook_secret")

	assert.True(t, c.VerifyWebhookSignature(body, valid))
	assert.False(t, c.VerifyWebhookSignature([]byte(`{"event":"tampered"}`), valid))
	assert.False(t, c.VerifyWebhookSignature(body, hmacHex(string(body), "wrong_secret")))
}

func TestVerifyHMACEmptySecret(t *testing.T) {
	assert.False(t, verifyHMAC([]byte("msg"), hmacHex("msg", ""), ""))
}

func TestParseWebhook(t *testing.T) {
	body := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_abc123",
					"order_id": "order_xyz789",
					"amount": 84000,
					"status": "captured"
				}
			}
		}
	}`)

	event, err := ParseWebhook(body)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentCaptured, event.Event)
	assert.Equal(t, "order_xyz789", event.IntentID)
	assert.Equal(t, "pay_abc123", event.Payment.ID)
	assert.Equal(t, int64(84000), event.Payment.Amount)
	assert.Equal(t, "captured", event.Payment.Status)
}

func TestParseWebhookInvalid(t *testing.T) {
	_, err := ParseWebhook([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseWebhook([]byte(`{"payload":{}}`))
	assert.Error(t, err)
}
