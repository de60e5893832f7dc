package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framecraft/storefront-backend/internal/domain/order"
	"github.com/framecraft/storefront-backend/internal/domain/settings"
)

func TestRenderInvoiceHTML(t *testing.T) {
	gen, err := NewGenerator()
	require.NoError(t, err)

	o := &order.Order{
		OrderNumber:    "FC-20250314-000042",
		CustomerName:   "Asha Rao",
		SubtotalAmount: 100000,
		DiscountAmount: 20000,
		TaxAmount:      4000,
		ShippingAmount: 0,
		TotalAmount:    84000,
		PromoCode:      "SAVE20",
		PaymentMethod:  order.PaymentOnline,
		CreatedAt:      time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		ShippingAddress: order.Address{
			AddressLine1: "12 Lake View Road",
			City:         "Bengaluru",
			State:        "KA",
			PostalCode:   "560001",
		},
		Items: []order.Item{
			{Name: "Oak Frame 8x10", Price: 60000, Quantity: 1, TotalPrice: 60000},
			{Name: "Walnut Frame A4", Price: 40000, Quantity: 1, TotalPrice: 40000},
		},
	}
	business := &settings.BusinessSettings{StoreName: "FrameCraft", CurrencySymbol: "₹", TaxRatePercent: 5}

	html, err := gen.RenderHTML(o, business)
	require.NoError(t, err)

	assert.Contains(t, html, "FC-20250314-000042")
	assert.Contains(t, html, "FrameCraft")
	assert.Contains(t, html, "14 Mar 2025")
	assert.Contains(t, html, "Oak Frame 8x10")
	assert.Contains(t, html, "₹840.00")
	assert.Contains(t, html, "(SAVE20)")
	assert.Contains(t, html, "Tax (5%)")
	assert.Contains(t, html, "Paid Online")
}

func TestRenderInvoiceNoDiscount(t *testing.T) {
	gen, err := NewGenerator()
	require.NoError(t, err)

	o := &order.Order{
		OrderNumber:   "FC-20250314-000043",
		PaymentMethod: order.PaymentCOD,
		CreatedAt:     time.Now(),
		Items:         []order.Item{{Name: "Pine Frame", Price: 30000, Quantity: 1, TotalPrice: 30000}},
	}
	html, err := gen.RenderHTML(o, &settings.BusinessSettings{StoreName: "FrameCraft", CurrencySymbol: "₹"})
	require.NoError(t, err)

	assert.NotContains(t, html, "Discount")
	assert.Contains(t, html, "Cash on Delivery")
}
