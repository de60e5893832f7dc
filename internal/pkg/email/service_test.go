package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framecraft/storefront-backend/internal/config"
	"github.com/framecraft/storefront-backend/internal/domain/order"
)

func testService(t *testing.T) *Service {
	cfg := &config.Config{}
	cfg.External.Email.Provider = "log"
	cfg.External.Email.FromName = "FrameCraft"
	cfg.External.Email.FromEmail = "orders@framecraft.example"

	svc, err := NewService(cfg)
	require.NoError(t, err)
	return svc
}

func TestRenderOrderConfirmation(t *testing.T) {
	svc := testService(t)

	o := &order.Order{
		OrderNumber:    "FC-20250314-000042",
		CustomerName:   "Asha Rao",
		Email:          "asha@example.com",
		SubtotalAmount: 100000,
		DiscountAmount: 20000,
		TaxAmount:      4000,
		ShippingAmount: 0,
		TotalAmount:    84000,
		PromoCode:      "SAVE20",
		PaymentMethod:  order.PaymentOnline,
		ShippingAddress: order.Address{
			AddressLine1: "12 Lake View Road",
			City:         "Bengaluru",
			PostalCode:   "560001",
		},
		Items: []order.Item{
			{Name: "Oak Frame 8x10", Quantity: 1, TotalPrice: 60000},
			{Name: "Walnut Frame A4", Quantity: 1, TotalPrice: 40000},
		},
	}

	html, err := svc.render(&confirmationData{Order: o, PaymentLabel: "Paid Online", StoreName: "FrameCraft"})
	require.NoError(t, err)

	assert.Contains(t, html, "FC-20250314-000042")
	assert.Contains(t, html, "Asha Rao")
	assert.Contains(t, html, "Oak Frame 8x10")
	assert.Contains(t, html, "₹840.00")
	assert.Contains(t, html, "SAVE20")
	assert.Contains(t, html, "-₹200.00")
	assert.Contains(t, html, "Free")
	assert.Contains(t, html, "Paid Online")
}

func TestRenderWithoutDiscount(t *testing.T) {
	svc := testService(t)

	o := &order.Order{
		OrderNumber:    "FC-20250314-000043",
		CustomerName:   "Ravi Menon",
		SubtotalAmount: 30000,
		TaxAmount:      1500,
		ShippingAmount: 5000,
		TotalAmount:    36500,
		PaymentMethod:  order.PaymentCOD,
		Items:          []order.Item{{Name: "Pine Frame 6x8", Quantity: 1, TotalPrice: 30000}},
	}

	html, err := svc.render(&confirmationData{Order: o, PaymentLabel: "Cash on Delivery", StoreName: "FrameCraft"})
	require.NoError(t, err)

	assert.NotContains(t, html, "Discount")
	assert.Contains(t, html, "₹50.00")
	assert.Contains(t, html, "Cash on Delivery")
}

func TestSendContactAcknowledgement(t *testing.T) {
	svc := testService(t)
	// The log provider renders and then drops the mail, so a nil error
	// proves the template executed.
	err := svc.SendContactAcknowledgement("asha@example.com", "Asha Rao", "Do you ship to Pune?")
	assert.NoError(t, err)
}

func TestLogProviderSendsNothing(t *testing.T) {
	svc := testService(t)
	o := &order.Order{OrderNumber: "FC-1", Email: "x@example.com", Items: []order.Item{}}
	assert.NoError(t, svc.SendOrderConfirmation(o))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₹840.00", formatMoney(84000))
	assert.Equal(t, "₹0.01", formatMoney(1))
	assert.Equal(t, "₹0.00", formatMoney(0))
}
