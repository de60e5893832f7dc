// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/framecraft/storefront-backend/internal/config"
	"github.com/framecraft/storefront-backend/internal/domain/cart"
	"github.com/framecraft/storefront-backend/internal/domain/order"
	"github.com/framecraft/storefront-backend/internal/domain/payment"
	"github.com/framecraft/storefront-backend/internal/domain/pricing"
	"github.com/framecraft/storefront-backend/internal/domain/promo"
	"github.com/framecraft/storefront-backend/internal/domain/settings"
)

// Consumer-side views of the collaborating services. Kept narrow so the
// checkout flow can be exercised against stubs.

type cartStore interface {
	Get(ctx context.Context, sessionID string) (*cart.View, error)
	Clear(ctx context.Context, sessionID string) error
}

type promoStore interface {
	GetApplied(ctx context.Context, sessionID string, subtotal int64) (*promo.AppliedPromo, error)
	Validate(ctx context.Context, code string, orderAmount int64) (*promo.PromoCode, error)
	ConsumeByCode(ctx context.Context, code string) error
	Remove(ctx context.Context, sessionID string) error
}

type settingsStore interface {
	Get(ctx context.Context) (*settings.BusinessSettings, error)
}

type orderStore interface {
	Create(req *order.CreateRequest) (*order.Order, error)
	GetByPaymentReference(ref string) (*order.Order, error)
	NextOrderNumber() (string, error)
}

type gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency, receipt string) (*payment.Intent, error)
	VerifyPaymentSignature(intentID, paymentID, signature string) bool
	KeyID() string
}

type mailer interface {
	SendOrderConfirmation(o *order.Order) error
}

// Service drives the checkout flow from quote to placed order
type Service struct {
	carts     cartStore
	promos    promoStore
	settings  settingsStore
	orders    orderStore
	gateway   gateway
	snapshots SnapshotStore
	mailer    mailer
	config    *config.Config
}

// NewService wires the checkout service from its collaborators
func NewService(
	carts cartStore,
	promos promoStore,
	store settingsStore,
	orders orderStore,
	gw gateway,
	snapshots SnapshotStore,
	m mailer,
	cfg *config.Config,
) *Service {
	return &Service{
		carts:     carts,
		promos:    promos,
		settings:  store,
		orders:    orders,
		gateway:   gw,
		snapshots: snapshots,
		mailer:    m,
		config:    cfg,
	}
}

// Quote is the priced view of the session's cart, recomputed on demand.
// Nothing in it is stored; the breakdown always reflects the current cart,
// current promo discount and current business settings.
type Quote struct {
	Items     []cart.ItemView     `json:"items"`
	Promo     *promo.AppliedPromo `json:"promo,omitempty"`
	Breakdown pricing.Breakdown   `json:"breakdown"`
	Currency  string              `json:"currency"`
	Symbol    string              `json:"currency_symbol"`
}

// GetQuote prices the session's cart with its applied promo
func (s *Service) GetQuote(ctx context.Context, sessionID string) (*Quote, error) {
	view, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	business, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	applied, err := s.promos.GetApplied(ctx, sessionID, view.Subtotal)
	if err != nil {
		return nil, err
	}

	var discount int64
	if applied != nil {
		discount = applied.DiscountAmount
	}
	breakdown := pricing.Compute(business.PricingInput(view.Subtotal, discount))

	return &Quote{
		Items:     view.Items,
		Promo:     applied,
		Breakdown: breakdown,
		Currency:  business.CurrencyCode,
		Symbol:    business.CurrencySymbol,
	}, nil
}

// CustomerInfo is the buyer's contact and shipping details
type CustomerInfo struct {
	Name            string        `json:"name" binding:"required,max=200"`
	Email           string        `json:"email" binding:"required,email"`
	Phone           string        `json:"phone" binding:"max=20"`
	ShippingAddress order.Address `json:"shipping_address" binding:"required"`
}

// SubmitCOD places a cash-on-delivery order immediately. The promo is
// consumed and the cart cleared as part of placement.
func (s *Service) SubmitCOD(ctx context.Context, sessionID string, info *CustomerInfo) (*order.Order, error) {
	quote, err := s.GetQuote(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(quote.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := s.revalidatePromo(ctx, sessionID, quote); err != nil {
		return nil, err
	}

	number, err := s.orders.NextOrderNumber()
	if err != nil {
		return nil, err
	}

	req := buildCreateRequest(number, info, quote, order.PaymentCOD, "", "")
	placed, err := s.orders.Create(req)
	if err != nil {
		return nil, err
	}

	s.consumePromo(ctx, req.PromoCode)
	s.releaseSession(ctx, sessionID)
	s.sendConfirmation(placed)
	return placed, nil
}

// PaymentInit is what the frontend needs to open the gateway widget
type PaymentInit struct {
	IntentID    string `json:"intent_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	PublicKey   string `json:"public_key"`
	OrderNumber string `json:"order_number"`
}

// InitiatePayment registers a gateway intent for the quoted total and
// snapshots the checkout state. No order row is written yet; the order
// materializes only when the payment is confirmed captured.
func (s *Service) InitiatePayment(ctx context.Context, sessionID string, info *CustomerInfo) (*PaymentInit, error) {
	if !s.config.OnlinePaymentsEnabled() {
		return nil, ErrOnlinePaymentsDisabled
	}

	quote, err := s.GetQuote(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(quote.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := s.revalidatePromo(ctx, sessionID, quote); err != nil {
		return nil, err
	}

	number, err := s.orders.NextOrderNumber()
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, quote.Breakdown.GrandTotal, quote.Currency, number)
	if err != nil {
		return nil, err
	}

	snap := buildSnapshot(sessionID, number, info, quote)
	if err := s.snapshots.Save(ctx, intent.ID, snap); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"intent_id":    intent.ID,
		"order_number": number,
		"amount":       quote.Breakdown.GrandTotal,
	}).Info("Payment initiated")

	return &PaymentInit{
		IntentID:    intent.ID,
		Amount:      quote.Breakdown.GrandTotal,
		Currency:    quote.Currency,
		PublicKey:   s.gateway.KeyID(),
		OrderNumber: number,
	}, nil
}

// ConfirmPayment finalizes an order after the browser widget reports a
// capture. The signature proves the capture is genuine; finalization is
// idempotent with the webhook path, whichever lands first.
func (s *Service) ConfirmPayment(ctx context.Context, intentID, paymentID, signature string) (*order.Order, error) {
	if !s.gateway.VerifyPaymentSignature(intentID, paymentID, signature) {
		return nil, ErrInvalidPaymentSignature
	}
	return s.finalize(ctx, intentID, paymentID)
}

// HandleWebhookEvent applies a verified gateway webhook. Capture events
// finalize the order; failure events discard the snapshot so the customer
// can retry with their cart and promo intact.
func (s *Service) HandleWebhookEvent(ctx context.Context, event *payment.WebhookEvent) error {
	switch event.Event {
	case payment.EventPaymentCaptured:
		_, err := s.finalize(ctx, event.IntentID, event.Payment.ID)
		return err
	case payment.EventPaymentFailed:
		return s.FailPayment(ctx, event.IntentID)
	default:
		logrus.WithField("event", event.Event).Debug("Ignoring unhandled webhook event")
		return nil
	}
}

// FailPayment discards the pending snapshot for a failed or abandoned
// payment. The cart and applied promo are deliberately left alone.
func (s *Service) FailPayment(ctx context.Context, intentID string) error {
	logrus.WithField("intent_id", intentID).Info("Payment failed, discarding checkout snapshot")
	return s.snapshots.Delete(ctx, intentID)
}

// finalize turns a captured payment into an order exactly once. A second
// call for the same intent returns the existing order.
func (s *Service) finalize(ctx context.Context, intentID, paymentID string) (*order.Order, error) {
	existing, err := s.orders.GetByPaymentReference(intentID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, order.ErrNotFound) {
		return nil, err
	}

	snap, err := s.snapshots.Get(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		// Money moved but we have nothing to build an order from.
		logrus.WithFields(logrus.Fields{
			"intent_id":  intentID,
			"payment_id": paymentID,
		}).Error("Captured payment has no snapshot and no order")
		return nil, ErrPaymentCapturedOrderMissing
	}

	placed, err := s.orders.Create(&order.CreateRequest{
		OrderNumber:      snap.OrderNumber,
		CustomerName:     snap.CustomerName,
		Email:            snap.Email,
		Phone:            snap.Phone,
		ShippingAddress:  snap.ShippingAddress,
		SubtotalAmount:   snap.SubtotalAmount,
		DiscountAmount:   snap.DiscountAmount,
		TaxAmount:        snap.TaxAmount,
		ShippingAmount:   snap.ShippingAmount,
		TotalAmount:      snap.TotalAmount,
		Currency:         snap.Currency,
		PromoCode:        snap.PromoCode,
		PaymentMethod:    order.PaymentOnline,
		PaymentReference: intentID,
		PaymentID:        paymentID,
		Status:           order.StatusProcessing,
		Items:            snap.Items,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to finalize captured payment %s: %w", intentID, err)
	}

	s.consumePromo(ctx, snap.PromoCode)
	if err := s.snapshots.Delete(ctx, intentID); err != nil {
		logrus.WithError(err).Warn("Failed to delete finalized checkout snapshot")
	}
	s.releaseSession(ctx, snap.SessionID)
	s.sendConfirmation(placed)

	logrus.WithFields(logrus.Fields{
		"order_number": placed.OrderNumber,
		"intent_id":    intentID,
	}).Info("Order finalized from captured payment")
	return placed, nil
}

// revalidatePromo re-checks the applied code right before money moves. A
// code that expired or was retired since it was applied drops off the
// session and the submission fails with the validation reason.
func (s *Service) revalidatePromo(ctx context.Context, sessionID string, quote *Quote) error {
	if quote.Promo == nil {
		return nil
	}
	_, err := s.promos.Validate(ctx, quote.Promo.Code, quote.Breakdown.Subtotal)
	if err == nil {
		return nil
	}
	var verr *promo.ValidationError
	if errors.As(err, &verr) {
		if rmErr := s.promos.Remove(ctx, sessionID); rmErr != nil {
			logrus.WithError(rmErr).Warn("Failed to remove stale applied promo")
		}
	}
	return err
}

// consumePromo records one usage of the code backing a placed order. The
// order already exists and the customer has been quoted or charged the
// discounted total, so a cap hit here is logged, not surfaced. Consuming
// strictly after persistence keeps retries and webhook redeliveries from
// incrementing usage for a purchase that never materialized.
func (s *Service) consumePromo(ctx context.Context, code string) {
	if code == "" {
		return
	}
	if err := s.promos.ConsumeByCode(ctx, code); err != nil {
		logrus.WithError(err).WithField("code", code).
			Warn("Promo consume failed after order placement")
	}
}

// releaseSession clears the cart and applied promo after a placed order
func (s *Service) releaseSession(ctx context.Context, sessionID string) {
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		logrus.WithError(err).Warn("Failed to clear cart after order")
	}
	if err := s.promos.Remove(ctx, sessionID); err != nil {
		logrus.WithError(err).Warn("Failed to remove applied promo after order")
	}
}

func (s *Service) sendConfirmation(o *order.Order) {
	if s.mailer == nil {
		return
	}
	go func() {
		if err := s.mailer.SendOrderConfirmation(o); err != nil {
			logrus.WithError(err).WithField("order_number", o.OrderNumber).
				Warn("Failed to send order confirmation email")
		}
	}()
}

func buildCreateRequest(number string, info *CustomerInfo, quote *Quote, method order.PaymentMethod, ref, paymentID string) *order.CreateRequest {
	promoCode := ""
	if quote.Promo != nil {
		promoCode = quote.Promo.Code
	}
	return &order.CreateRequest{
		OrderNumber:      number,
		CustomerName:     info.Name,
		Email:            info.Email,
		Phone:            info.Phone,
		ShippingAddress:  info.ShippingAddress,
		SubtotalAmount:   quote.Breakdown.Subtotal,
		DiscountAmount:   quote.Breakdown.DiscountAmount,
		TaxAmount:        quote.Breakdown.TaxAmount,
		ShippingAmount:   quote.Breakdown.ShippingCharge,
		TotalAmount:      quote.Breakdown.GrandTotal,
		Currency:         quote.Currency,
		PromoCode:        promoCode,
		PaymentMethod:    method,
		PaymentReference: ref,
		PaymentID:        paymentID,
		Items:            orderItems(quote.Items),
	}
}

func buildSnapshot(sessionID, number string, info *CustomerInfo, quote *Quote) *Snapshot {
	req := buildCreateRequest(number, info, quote, order.PaymentOnline, "", "")
	return &Snapshot{
		SessionID:       sessionID,
		OrderNumber:     req.OrderNumber,
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
		SubtotalAmount:  req.SubtotalAmount,
		DiscountAmount:  req.DiscountAmount,
		TaxAmount:       req.TaxAmount,
		ShippingAmount:  req.ShippingAmount,
		TotalAmount:     req.TotalAmount,
		Currency:        req.Currency,
		PromoCode:       req.PromoCode,
		Items:           req.Items,
		CreatedAt:       time.Now(),
	}
}

func orderItems(items []cart.ItemView) []order.Item {
	out := make([]order.Item, 0, len(items))
	for _, item := range items {
		out = append(out, order.Item{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			TotalPrice: item.LineTotal,
		})
	}
	return out
}
