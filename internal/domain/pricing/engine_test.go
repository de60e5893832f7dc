package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePercentagePromoWithThresholdDelivery(t *testing.T) {
	// ₹1000 cart, 20% promo, 5% tax, free delivery over ₹999.
	in := Input{
		Subtotal:              100000,
		DiscountAmount:        DiscountFor(DiscountPercentage, 20, 100000),
		TaxRatePercent:        5,
		DeliveryType:          DeliveryThreshold,
		DeliveryCharge:        9900,
		FreeDeliveryThreshold: 99900,
	}

	got := Compute(in)

	assert.Equal(t, int64(20000), got.DiscountAmount)
	assert.Equal(t, int64(80000), got.DiscountedSubtotal)
	assert.Equal(t, int64(4000), got.TaxAmount)
	assert.True(t, got.FreeDelivery)
	assert.Equal(t, int64(0), got.ShippingCharge)
	assert.Equal(t, int64(84000), got.GrandTotal)
}

func TestComputeNoPromoFreeDeliveryZeroTax(t *testing.T) {
	got := Compute(Input{
		Subtotal:     50000,
		DeliveryType: DeliveryFree,
	})

	assert.Equal(t, int64(50000), got.DiscountedSubtotal)
	assert.Equal(t, int64(0), got.TaxAmount)
	assert.Equal(t, int64(0), got.ShippingCharge)
	assert.Equal(t, int64(50000), got.GrandTotal)
}

func TestComputeThresholdUsesPreDiscountSubtotal(t *testing.T) {
	// Subtotal qualifies before the discount is applied; the discounted
	// subtotal alone would not.
	got := Compute(Input{
		Subtotal:              100000,
		DiscountAmount:        50000,
		DeliveryType:          DeliveryThreshold,
		DeliveryCharge:        9900,
		FreeDeliveryThreshold: 99900,
	})
	assert.True(t, got.FreeDelivery)

	// Below threshold pre-discount: charged even though other carts with the
	// same discounted subtotal ship free.
	got = Compute(Input{
		Subtotal:              90000,
		DiscountAmount:        0,
		DeliveryType:          DeliveryThreshold,
		DeliveryCharge:        9900,
		FreeDeliveryThreshold: 99900,
	})
	assert.False(t, got.FreeDelivery)
	assert.Equal(t, int64(9900), got.ShippingCharge)
}

func TestComputeFixedDeliveryAlwaysCharged(t *testing.T) {
	got := Compute(Input{
		Subtotal:       500000,
		DeliveryType:   DeliveryFixed,
		DeliveryCharge: 4900,
	})
	assert.Equal(t, int64(4900), got.ShippingCharge)
	assert.Equal(t, int64(504900), got.GrandTotal)
}

func TestComputeDiscountCappedAtSubtotal(t *testing.T) {
	got := Compute(Input{
		Subtotal:       10000,
		DiscountAmount: 25000,
		TaxRatePercent: 18,
		DeliveryType:   DeliveryFree,
	})
	assert.Equal(t, int64(10000), got.DiscountAmount)
	assert.Equal(t, int64(0), got.DiscountedSubtotal)
	assert.Equal(t, int64(0), got.TaxAmount)
	assert.Equal(t, int64(0), got.GrandTotal)
}

func TestComputeNegativeDiscountIgnored(t *testing.T) {
	got := Compute(Input{Subtotal: 10000, DiscountAmount: -500, DeliveryType: DeliveryFree})
	assert.Equal(t, int64(0), got.DiscountAmount)
	assert.Equal(t, int64(10000), got.GrandTotal)
}

func TestComputeTaxRoundsHalfUp(t *testing.T) {
	// 333 * 5% = 16.65 -> 17
	got := Compute(Input{Subtotal: 333, TaxRatePercent: 5, DeliveryType: DeliveryFree})
	assert.Equal(t, int64(17), got.TaxAmount)

	// 330 * 5% = 16.5 -> 17 (half rounds up)
	got = Compute(Input{Subtotal: 330, TaxRatePercent: 5, DeliveryType: DeliveryFree})
	assert.Equal(t, int64(17), got.TaxAmount)

	// 320 * 5% = 16.0 -> 16
	got = Compute(Input{Subtotal: 320, TaxRatePercent: 5, DeliveryType: DeliveryFree})
	assert.Equal(t, int64(16), got.TaxAmount)
}

func TestComputeIsDeterministic(t *testing.T) {
	in := Input{
		Subtotal:              123457,
		DiscountAmount:        DiscountFor(DiscountPercentage, 12.5, 123457),
		TaxRatePercent:        18,
		DeliveryType:          DeliveryThreshold,
		DeliveryCharge:        7500,
		FreeDeliveryThreshold: 200000,
	}

	first := Compute(in)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Compute(in))
	}
}

func TestDiscountFor(t *testing.T) {
	tests := []struct {
		name     string
		typ      DiscountType
		value    float64
		subtotal int64
		want     int64
	}{
		{"percentage exact", DiscountPercentage, 20, 100000, 20000},
		{"percentage rounds half up", DiscountPercentage, 15, 333, 50}, // 49.95 -> 50
		{"percentage full", DiscountPercentage, 100, 5000, 5000},
		{"fixed", DiscountFixed, 50000, 100000, 50000},
		{"fixed capped at subtotal", DiscountFixed, 50000, 30000, 30000},
		{"fixed negative clamped", DiscountFixed, -100, 30000, 0},
		{"unknown type", DiscountType("bogus"), 50, 100000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountFor(tt.typ, tt.value, tt.subtotal))
		})
	}
}
