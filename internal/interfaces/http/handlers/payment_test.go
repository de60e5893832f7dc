package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framecraft/storefront-backend/internal/config"
	"github.com/framecraft/storefront-backend/internal/domain/checkout"
	"github.com/framecraft/storefront-backend/internal/domain/payment"
)

const testWebhookSecret = "whsec_test"

type recordingSnapshots struct {
	deleted []string
}

func (r *recordingSnapshots) Save(context.Context, string, *checkout.Snapshot) error { return nil }
func (r *recordingSnapshots) Get(context.Context, string) (*checkout.Snapshot, error) {
	return nil, nil
}
func (r *recordingSnapshots) Delete(_ context.Context, intentID string) error {
	r.deleted = append(r.deleted, intentID)
	return nil
}

func webhookRouter(t *testing.T) (*gin.Engine, *recordingSnapshots) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.External.Razorpay.KeyID = "rzp_test_key"
	cfg.External.Razorpay.KeySecret = "key_secret"
	cfg.External.Razorpay.WebhookSecret = testWebhookSecret

	gateway := payment.NewClient(cfg)
	snapshots := &recordingSnapshots{}
	// Failure events only touch the snapshot store, so the remaining
	// collaborators can stay nil here.
	checkouts := checkout.NewService(nil, nil, nil, nil, nil, snapshots, nil, cfg)
	handler := NewPaymentHandler(gateway, checkouts)

	r := gin.New()
	r.POST("/webhooks/payment", handler.Webhook)
	return r, snapshots
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(r *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Razorpay-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	r, _ := webhookRouter(t)
	w := postWebhook(r, []byte(`{"event":"payment.captured"}`), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r, _ := webhookRouter(t)
	w := postWebhook(r, []byte(`{"event":"payment.captured"}`), "deadbeef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectsTamperedBody(t *testing.T) {
	r, _ := webhookRouter(t)
	signature := sign([]byte(`{"event":"payment.captured"}`))
	w := postWebhook(r, []byte(`{"event":"payment.failed"}`), signature)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	r, _ := webhookRouter(t)
	body := []byte(`not json at all`)
	w := postWebhook(r, body, sign(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookIgnoresUnhandledEvents(t *testing.T) {
	r, snapshots := webhookRouter(t)
	body := []byte(`{"event":"refund.created","payload":{}}`)
	w := postWebhook(r, body, sign(body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, snapshots.deleted)
}

func TestWebhookFailedEventDiscardsSnapshot(t *testing.T) {
	r, snapshots := webhookRouter(t)
	body := []byte(`{
		"event": "payment.failed",
		"payload": {"payment": {"entity": {"id": "pay_1", "order_id": "intent_1", "status": "failed"}}}
	}`)
	w := postWebhook(r, body, sign(body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"intent_1"}, snapshots.deleted)
}
