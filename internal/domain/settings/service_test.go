package settings

import (
	"testing"

	"github.com/framecraft/storefront-backend/internal/domain/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBusinessSettingsDefaults(t *testing.T) {
	got, err := ParseBusinessSettings(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "₹", got.CurrencySymbol)
	assert.Equal(t, "INR", got.CurrencyCode)
	assert.Equal(t, float64(0), got.TaxRatePercent)
	assert.Equal(t, pricing.DeliveryFree, got.DeliveryType)
}

func TestParseBusinessSettingsFull(t *testing.T) {
	got, err := ParseBusinessSettings(map[string]string{
		KeyCurrencySymbol:        "$",
		KeyCurrencyCode:          "USD",
		KeyTaxRatePercent:        "5.5",
		KeyDeliveryType:          "threshold",
		KeyDeliveryCharge:        "9900",
		KeyFreeDeliveryThreshold: "99900",
		"unknown_key":            "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "$", got.CurrencySymbol)
	assert.Equal(t, 5.5, got.TaxRatePercent)
	assert.Equal(t, pricing.DeliveryThreshold, got.DeliveryType)
	assert.Equal(t, int64(9900), got.DeliveryCharge)
	assert.Equal(t, int64(99900), got.FreeDeliveryThreshold)
}

func TestParseBusinessSettingsRejectsMalformedValues(t *testing.T) {
	cases := []map[string]string{
		{KeyTaxRatePercent: "abc"},
		{KeyTaxRatePercent: "101"},
		{KeyTaxRatePercent: "-1"},
		{KeyDeliveryType: "teleport"},
		{KeyDeliveryCharge: "-50"},
		{KeyDeliveryCharge: "ten"},
		{KeyFreeDeliveryThreshold: "-1"},
	}

	for _, raw := range cases {
		_, err := ParseBusinessSettings(raw)
		assert.Error(t, err, "expected rejection for %v", raw)
	}
}

func TestPricingInputMapping(t *testing.T) {
	s := BusinessSettings{
		TaxRatePercent:        18,
		DeliveryType:          pricing.DeliveryThreshold,
		DeliveryCharge:        7500,
		FreeDeliveryThreshold: 200000,
	}

	in := s.PricingInput(100000, 20000)
	assert.Equal(t, int64(100000), in.Subtotal)
	assert.Equal(t, int64(20000), in.DiscountAmount)
	assert.Equal(t, float64(18), in.TaxRatePercent)
	assert.Equal(t, pricing.DeliveryThreshold, in.DeliveryType)
}
