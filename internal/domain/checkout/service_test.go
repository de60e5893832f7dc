package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framecraft/storefront-backend/internal/config"
	"github.com/framecraft/storefront-backend/internal/domain/cart"
	"github.com/framecraft/storefront-backend/internal/domain/order"
	"github.com/framecraft/storefront-backend/internal/domain/payment"
	"github.com/framecraft/storefront-backend/internal/domain/pricing"
	"github.com/framecraft/storefront-backend/internal/domain/promo"
	"github.com/framecraft/storefront-backend/internal/domain/settings"
)

type stubCarts struct {
	view    *cart.View
	cleared []string
}

func (s *stubCarts) Get(_ context.Context, sessionID string) (*cart.View, error) {
	return s.view, nil
}

func (s *stubCarts) Clear(_ context.Context, sessionID string) error {
	s.cleared = append(s.cleared, sessionID)
	return nil
}

type stubPromos struct {
	applied     *promo.AppliedPromo
	validateErr error
	consumeErr  error
	consumed    []string
	removed     []string
}

func (s *stubPromos) Validate(_ context.Context, code string, _ int64) (*promo.PromoCode, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return &promo.PromoCode{Code: code}, nil
}

func (s *stubPromos) GetApplied(_ context.Context, sessionID string, subtotal int64) (*promo.AppliedPromo, error) {
	if s.applied == nil {
		return nil, nil
	}
	out := *s.applied
	out.DiscountAmount = pricing.DiscountFor(out.DiscountType, out.DiscountValue, subtotal)
	return &out, nil
}

func (s *stubPromos) ConsumeByCode(_ context.Context, code string) error {
	if s.consumeErr != nil {
		return s.consumeErr
	}
	s.consumed = append(s.consumed, code)
	return nil
}

func (s *stubPromos) Remove(_ context.Context, sessionID string) error {
	s.removed = append(s.removed, sessionID)
	return nil
}

type stubSettings struct {
	business *settings.BusinessSettings
}

func (s *stubSettings) Get(_ context.Context) (*settings.BusinessSettings, error) {
	return s.business, nil
}

type stubOrders struct {
	byRef      map[string]*order.Order
	created    []*order.CreateRequest
	nextNumber string
	createErr  error
}

func (s *stubOrders) Create(req *order.CreateRequest) (*order.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, req)
	status := req.Status
	if status == "" {
		status = order.StatusPending
	}
	o := &order.Order{
		ID:               uint(len(s.created)),
		OrderNumber:      req.OrderNumber,
		Email:            req.Email,
		TotalAmount:      req.TotalAmount,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		Status:           status,
	}
	if req.PaymentReference != "" {
		s.byRef[req.PaymentReference] = o
	}
	return o, nil
}

func (s *stubOrders) GetByPaymentReference(ref string) (*order.Order, error) {
	if o, ok := s.byRef[ref]; ok {
		return o, nil
	}
	return nil, order.ErrNotFound
}

func (s *stubOrders) NextOrderNumber() (string, error) {
	return s.nextNumber, nil
}

type stubGateway struct {
	intent   *payment.Intent
	validSig bool
}

func (s *stubGateway) CreateIntent(_ context.Context, amount int64, currency, receipt string) (*payment.Intent, error) {
	s.intent = &payment.Intent{ID: "intent_1", Amount: amount, Currency: currency, Receipt: receipt}
	return s.intent, nil
}

func (s *stubGateway) VerifyPaymentSignature(intentID, paymentID, signature string) bool {
	return s.validSig
}

func (s *stubGateway) KeyID() string { return "rzp_test_key" }

type memSnapshots struct {
	data map[string]*Snapshot
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{data: make(map[string]*Snapshot)}
}

func (m *memSnapshots) Save(_ context.Context, intentID string, snap *Snapshot) error {
	m.data[intentID] = snap
	return nil
}

func (m *memSnapshots) Get(_ context.Context, intentID string) (*Snapshot, error) {
	return m.data[intentID], nil
}

func (m *memSnapshots) Delete(_ context.Context, intentID string) error {
	delete(m.data, intentID)
	return nil
}

type fixture struct {
	svc       *Service
	carts     *stubCarts
	promos    *stubPromos
	orders    *stubOrders
	gw        *stubGateway
	snapshots *memSnapshots
}

func newFixture() *fixture {
	carts := &stubCarts{
		view: &cart.View{
			SessionID: "sess1",
			Items: []cart.ItemView{
				{ProductID: 1, Name: "Oak Frame 8x10", Price: 60000, Quantity: 1, LineTotal: 60000},
				{ProductID: 2, Name: "Walnut Frame A4", Price: 40000, Quantity: 1, LineTotal: 40000},
			},
			ItemCount:     2,
			TotalQuantity: 2,
			Subtotal:      100000,
			UpdatedAt:     time.Now(),
		},
	}
	promos := &stubPromos{}
	business := &settings.BusinessSettings{
		CurrencySymbol:        "₹",
		CurrencyCode:          "INR",
		TaxRatePercent:        5,
		DeliveryType:          pricing.DeliveryThreshold,
		DeliveryCharge:        5000,
		FreeDeliveryThreshold: 99900,
	}
	orders := &stubOrders{byRef: make(map[string]*order.Order), nextNumber: "FC-20250314-000042"}
	gw := &stubGateway{validSig: true}
	snapshots := newMemSnapshots()

	cfg := &config.Config{}
	cfg.External.Razorpay.KeyID = "rzp_test_key"
	cfg.External.Razorpay.KeySecret = "secret"

	svc := NewService(carts, promos, &stubSettings{business: business}, orders, gw, snapshots, nil, cfg)
	return &fixture{svc: svc, carts: carts, promos: promos, orders: orders, gw: gw, snapshots: snapshots}
}

func customer() *CustomerInfo {
	return &CustomerInfo{
		Name:  "Asha Rao",
		Email: "asha@example.com",
		Phone: "+919900112233",
		ShippingAddress: order.Address{
			AddressLine1: "12 Lake View Road",
			City:         "Bengaluru",
			State:        "KA",
			PostalCode:   "560001",
			Country:      "IN",
		},
	}
}

func TestGetQuoteWithPercentagePromo(t *testing.T) {
	f := newFixture()
	f.promos.applied = &promo.AppliedPromo{Code: "SAVE20", DiscountType: pricing.DiscountPercentage, DiscountValue: 20}

	quote, err := f.svc.GetQuote(context.Background(), "sess1")
	require.NoError(t, err)

	assert.Equal(t, int64(100000), quote.Breakdown.Subtotal)
	assert.Equal(t, int64(20000), quote.Breakdown.DiscountAmount)
	assert.Equal(t, int64(4000), quote.Breakdown.TaxAmount)
	assert.True(t, quote.Breakdown.FreeDelivery)
	assert.Equal(t, int64(0), quote.Breakdown.ShippingCharge)
	assert.Equal(t, int64(84000), quote.Breakdown.GrandTotal)
	assert.Equal(t, "INR", quote.Currency)
}

func TestSubmitCOD(t *testing.T) {
	f := newFixture()
	f.promos.applied = &promo.AppliedPromo{Code: "SAVE20", DiscountType: pricing.DiscountPercentage, DiscountValue: 20}

	placed, err := f.svc.SubmitCOD(context.Background(), "sess1", customer())
	require.NoError(t, err)

	assert.Equal(t, "FC-20250314-000042", placed.OrderNumber)
	assert.Equal(t, order.PaymentCOD, placed.PaymentMethod)
	assert.Equal(t, int64(84000), placed.TotalAmount)
	assert.Equal(t, []string{"SAVE20"}, f.promos.consumed)
	assert.Equal(t, []string{"sess1"}, f.carts.cleared)
	assert.Equal(t, []string{"sess1"}, f.promos.removed)

	require.Len(t, f.orders.created, 1)
	req := f.orders.created[0]
	assert.Equal(t, "SAVE20", req.PromoCode)
	assert.Len(t, req.Items, 2)
	assert.Equal(t, int64(60000), req.Items[0].Price)
}

func TestSubmitCODEmptyCart(t *testing.T) {
	f := newFixture()
	f.carts.view = &cart.View{SessionID: "sess1", Items: []cart.ItemView{}}

	_, err := f.svc.SubmitCOD(context.Background(), "sess1", customer())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.orders.created)
}

func TestSubmitCODPromoExhausted(t *testing.T) {
	f := newFixture()
	f.promos.applied = &promo.AppliedPromo{Code: "SAVE20", DiscountType: pricing.DiscountPercentage, DiscountValue: 20}
	f.promos.validateErr = &promo.ValidationError{Reason: promo.ReasonUsageLimitReached, Message: "limit reached"}

	_, err := f.svc.SubmitCOD(context.Background(), "sess1", customer())
	require.Error(t, err)
	var verr *promo.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, promo.ReasonUsageLimitReached, verr.Reason)
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.promos.consumed)
	assert.Empty(t, f.carts.cleared)
}

func TestSubmitCODCreateFailureConsumesNothing(t *testing.T) {
	f := newFixture()
	f.promos.applied = &promo.AppliedPromo{Code: "SAVE20", DiscountType: pricing.DiscountPercentage, DiscountValue: 20}
	f.orders.createErr = fmt.Errorf("connection reset")

	// A transient persistence failure must not burn a usage slot, however
	// many times the customer retries.
	for i := 0; i < 2; i++ {
		_, err := f.svc.SubmitCOD(context.Background(), "sess1", customer())
		require.Error(t, err)
	}
	assert.Empty(t, f.promos.consumed)
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.carts.cleared)

	// Once persistence recovers, a single slot is consumed.
	f.orders.createErr = nil
	_, err := f.svc.SubmitCOD(context.Background(), "sess1", customer())
	require.NoError(t, err)
	assert.Equal(t, []string{"SAVE20"}, f.promos.consumed)
	assert.Len(t, f.orders.created, 1)
}

func TestSubmitCODPromoExpiredSinceApply(t *testing.T) {
	f := newFixture()
	f.promos.applied = &promo.AppliedPromo{Code: "SAVE20", DiscountType: pricing.DiscountPercentage, DiscountValue: 20}
	f.promos.validateErr = &promo.ValidationError{Reason: promo.ReasonExpired, Message: "this promo code has expired"}

	_, err := f.svc.SubmitCOD(context.Background(), "sess1", customer())
	require.Error(t, err)
	var verr *promo.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, promo.ReasonExpired, verr.Reason)
	// The stale code is dropped from the session, nothing is consumed.
	assert.Equal(t, []string{"sess1"}, f.promos.removed)
	assert.Empty(t, f.promos.consumed)
	assert.Empty(t, f.orders.created)
}

func TestInitiatePaymentCreatesSnapshotNotOrder(t *testing.T) {
	f := newFixture()

	init, err := f.svc.InitiatePayment(context.Background(), "sess1", customer())
	require.NoError(t, err)

	assert.Equal(t, "intent_1", init.IntentID)
	assert.Equal(t, int64(105000), init.Amount) // 100000 + 5% tax, free delivery
	assert.Equal(t, "INR", init.Currency)
	assert.Equal(t, "rzp_test_key", init.PublicKey)
	assert.Equal(t, "FC-20250314-000042", init.OrderNumber)

	assert.Empty(t, f.orders.created)
	snap := f.snapshots.data["intent_1"]
	require.NotNil(t, snap)
	assert.Equal(t, "sess1", snap.SessionID)
	assert.Equal(t, int64(105000), snap.TotalAmount)
	assert.Len(t, snap.Items, 2)
}

func TestInitiatePaymentDisabled(t *testing.T) {
	f := newFixture()
	cfg := &config.Config{}
	f.svc.config = cfg

	_, err := f.svc.InitiatePayment(context.Background(), "sess1", customer())
	assert.ErrorIs(t, err, ErrOnlinePaymentsDisabled)
}

func TestConfirmPaymentInvalidSignature(t *testing.T) {
	f := newFixture()
	f.gw.validSig = false

	_, err := f.svc.ConfirmPayment(context.Background(), "intent_1", "pay_1", "bad")
	assert.ErrorIs(t, err, ErrInvalidPaymentSignature)
	assert.Empty(t, f.orders.created)
}

func TestConfirmPaymentFinalizesOnce(t *testing.T) {
	f := newFixture()
	f.promos.applied = &promo.AppliedPromo{Code: "SAVE20", DiscountType: pricing.DiscountPercentage, DiscountValue: 20}

	_, err := f.svc.InitiatePayment(context.Background(), "sess1", customer())
	require.NoError(t, err)

	placed, err := f.svc.ConfirmPayment(context.Background(), "intent_1", "pay_1", "sig")
	require.NoError(t, err)
	assert.Equal(t, order.PaymentOnline, placed.PaymentMethod)
	assert.Equal(t, "intent_1", placed.PaymentReference)
	assert.Equal(t, order.StatusProcessing, placed.Status)
	assert.Equal(t, []string{"SAVE20"}, f.promos.consumed)
	assert.Equal(t, []string{"sess1"}, f.carts.cleared)
	assert.Nil(t, f.snapshots.data["intent_1"])

	// Retried confirmation returns the same order without creating another
	again, err := f.svc.ConfirmPayment(context.Background(), "intent_1", "pay_1", "sig")
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNumber, again.OrderNumber)
	assert.Len(t, f.orders.created, 1)
}

func TestWebhookCapturedAfterConfirmIsNoOp(t *testing.T) {
	f := newFixture()

	_, err := f.svc.InitiatePayment(context.Background(), "sess1", customer())
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(context.Background(), "intent_1", "pay_1", "sig")
	require.NoError(t, err)

	event := &payment.WebhookEvent{Event: payment.EventPaymentCaptured, IntentID: "intent_1"}
	event.Payment.ID = "pay_1"
	require.NoError(t, f.svc.HandleWebhookEvent(context.Background(), event))
	assert.Len(t, f.orders.created, 1)
}

func TestWebhookCapturedFinalizesWithoutConfirm(t *testing.T) {
	f := newFixture()

	_, err := f.svc.InitiatePayment(context.Background(), "sess1", customer())
	require.NoError(t, err)

	event := &payment.WebhookEvent{Event: payment.EventPaymentCaptured, IntentID: "intent_1"}
	event.Payment.ID = "pay_1"
	require.NoError(t, f.svc.HandleWebhookEvent(context.Background(), event))

	require.Len(t, f.orders.created, 1)
	assert.Equal(t, "pay_1", f.orders.created[0].PaymentID)
	assert.Equal(t, []string{"sess1"}, f.carts.cleared)
}

func TestWebhookFailedKeepsCartAndPromo(t *testing.T) {
	f := newFixture()
	f.promos.applied = &promo.AppliedPromo{Code: "SAVE20", DiscountType: pricing.DiscountPercentage, DiscountValue: 20}

	_, err := f.svc.InitiatePayment(context.Background(), "sess1", customer())
	require.NoError(t, err)

	event := &payment.WebhookEvent{Event: payment.EventPaymentFailed, IntentID: "intent_1"}
	require.NoError(t, f.svc.HandleWebhookEvent(context.Background(), event))

	assert.Nil(t, f.snapshots.data["intent_1"])
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.carts.cleared)
	assert.Empty(t, f.promos.removed)
	assert.Empty(t, f.promos.consumed)
}

func TestCapturedWithExpiredSnapshot(t *testing.T) {
	f := newFixture()

	event := &payment.WebhookEvent{Event: payment.EventPaymentCaptured, IntentID: "intent_gone"}
	err := f.svc.HandleWebhookEvent(context.Background(), event)
	assert.ErrorIs(t, err, ErrPaymentCapturedOrderMissing)
}

func TestWebhookRedeliveryAfterCreateFailureConsumesOnce(t *testing.T) {
	f := newFixture()
	f.promos.applied = &promo.AppliedPromo{Code: "SAVE20", DiscountType: pricing.DiscountPercentage, DiscountValue: 20}

	_, err := f.svc.InitiatePayment(context.Background(), "sess1", customer())
	require.NoError(t, err)

	event := &payment.WebhookEvent{Event: payment.EventPaymentCaptured, IntentID: "intent_1"}
	event.Payment.ID = "pay_1"

	// The gateway redelivers until it sees a success. Failed persistence
	// attempts must not touch the usage counter.
	f.orders.createErr = fmt.Errorf("connection reset")
	for i := 0; i < 3; i++ {
		require.Error(t, f.svc.HandleWebhookEvent(context.Background(), event))
	}
	assert.Empty(t, f.promos.consumed)
	assert.Empty(t, f.orders.created)
	require.NotNil(t, f.snapshots.data["intent_1"])

	f.orders.createErr = nil
	require.NoError(t, f.svc.HandleWebhookEvent(context.Background(), event))
	require.NoError(t, f.svc.HandleWebhookEvent(context.Background(), event))
	assert.Equal(t, []string{"SAVE20"}, f.promos.consumed)
	assert.Len(t, f.orders.created, 1)
}

func TestFinalizeProceedsWhenPromoConsumeFails(t *testing.T) {
	f := newFixture()
	f.promos.applied = &promo.AppliedPromo{Code: "SAVE20", DiscountType: pricing.DiscountPercentage, DiscountValue: 20}

	_, err := f.svc.InitiatePayment(context.Background(), "sess1", customer())
	require.NoError(t, err)

	// Usage cap hit between initiation and capture. The customer was
	// already charged; the order still goes through.
	f.promos.consumeErr = fmt.Errorf("usage limit reached")

	placed, err := f.svc.ConfirmPayment(context.Background(), "intent_1", "pay_1", "sig")
	require.NoError(t, err)
	assert.Len(t, f.orders.created, 1)
	assert.Equal(t, int64(84000), placed.TotalAmount)
}
