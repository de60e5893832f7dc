// internal/domain/pricing/engine.go

// Package pricing computes order totals. Every function here is pure:
// identical inputs always produce identical outputs, and nothing reads
// from storage or the clock. All amounts are int64 minor currency units
// (paise).
package pricing

import "github.com/shopspring/decimal"

// DeliveryType selects the shipping charge policy.
type DeliveryType string

const (
	DeliveryFree      DeliveryType = "free"
	DeliveryFixed     DeliveryType = "fixed"
	DeliveryThreshold DeliveryType = "threshold"
)

// DiscountType enumerates the supported promo discount strategies.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Input carries everything total computation depends on.
type Input struct {
	Subtotal              int64        `json:"subtotal"`
	DiscountAmount        int64        `json:"discount_amount"`
	TaxRatePercent        float64      `json:"tax_rate_percent"`
	DeliveryType          DeliveryType `json:"delivery_type"`
	DeliveryCharge        int64        `json:"delivery_charge"`
	FreeDeliveryThreshold int64        `json:"free_delivery_threshold"`
}

// Breakdown is the computed pricing result.
type Breakdown struct {
	Subtotal           int64 `json:"subtotal"`
	DiscountAmount     int64 `json:"discount_amount"`
	DiscountedSubtotal int64 `json:"discounted_subtotal"`
	TaxAmount          int64 `json:"tax_amount"`
	ShippingCharge     int64 `json:"shipping_charge"`
	FreeDelivery       bool  `json:"free_delivery"`
	GrandTotal         int64 `json:"grand_total"`
}

// Compute derives the full pricing breakdown for a cart.
//
// The discount is capped at the subtotal so the discounted subtotal can
// never go negative. Tax is charged on the discounted subtotal and rounded
// half-up to a whole minor unit. The free-delivery threshold is checked
// against the PRE-discount subtotal: a promo code must not also unlock free
// shipping unless the cart qualifies on its own.
func Compute(in Input) Breakdown {
	discount := in.DiscountAmount
	if discount < 0 {
		discount = 0
	}
	if discount > in.Subtotal {
		discount = in.Subtotal
	}

	discounted := in.Subtotal - discount
	tax := roundHalfUp(decimal.NewFromInt(discounted).
		Mul(decimal.NewFromFloat(in.TaxRatePercent)).
		Div(decimal.NewFromInt(100)))

	free := in.DeliveryType == DeliveryFree ||
		(in.DeliveryType == DeliveryThreshold && in.Subtotal >= in.FreeDeliveryThreshold)

	var shipping int64
	if !free {
		shipping = in.DeliveryCharge
	}

	return Breakdown{
		Subtotal:           in.Subtotal,
		DiscountAmount:     discount,
		DiscountedSubtotal: discounted,
		TaxAmount:          tax,
		ShippingCharge:     shipping,
		FreeDelivery:       free,
		GrandTotal:         discounted + tax + shipping,
	}
}

// DiscountFor computes the discount amount a promo grants against the
// current subtotal. Percentage values are rounded half-up to a whole minor
// unit; fixed amounts are capped at the subtotal. The result is recomputed
// on every subtotal change rather than stored, so percentage promos track
// the live cart.
func DiscountFor(t DiscountType, value float64, subtotal int64) int64 {
	switch t {
	case DiscountPercentage:
		amount := roundHalfUp(decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromFloat(value)).
			Div(decimal.NewFromInt(100)))
		if amount > subtotal {
			return subtotal
		}
		return amount
	case DiscountFixed:
		amount := roundHalfUp(decimal.NewFromFloat(value))
		if amount > subtotal {
			return subtotal
		}
		if amount < 0 {
			return 0
		}
		return amount
	default:
		return 0
	}
}

func roundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
