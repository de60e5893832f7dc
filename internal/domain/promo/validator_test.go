package promo

import (
	"testing"
	"time"

	"github.com/framecraft/storefront-backend/internal/domain/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func activePromo() *PromoCode {
	return &PromoCode{
		ID:             1,
		Code:           "SAVE20",
		DiscountType:   pricing.DiscountPercentage,
		DiscountValue:  20,
		MinOrderAmount: 50000,
		ValidFrom:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
}

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func TestEvaluateSuccess(t *testing.T) {
	verr := Evaluate(activePromo(), 100000, now)
	assert.Nil(t, verr)
}

func TestEvaluateNotFoundCases(t *testing.T) {
	verr := Evaluate(nil, 100000, now)
	require.NotNil(t, verr)
	assert.Equal(t, ReasonNotFound, verr.Reason)

	inactive := activePromo()
	inactive.IsActive = false
	verr = Evaluate(inactive, 100000, now)
	require.NotNil(t, verr)
	assert.Equal(t, ReasonNotFound, verr.Reason)

	// Not yet live reads as not found.
	future := activePromo()
	future.ValidFrom = now.Add(24 * time.Hour)
	verr = Evaluate(future, 100000, now)
	require.NotNil(t, verr)
	assert.Equal(t, ReasonNotFound, verr.Reason)
}

func TestEvaluateExpired(t *testing.T) {
	p := activePromo()
	p.ValidUntil = timePtr(now.Add(-time.Hour))

	verr := Evaluate(p, 100000, now)
	require.NotNil(t, verr)
	assert.Equal(t, ReasonExpired, verr.Reason)
}

func TestEvaluateNilValidUntilNeverExpires(t *testing.T) {
	p := activePromo()
	p.ValidUntil = nil
	assert.Nil(t, Evaluate(p, 100000, now.AddDate(10, 0, 0)))
}

func TestEvaluateUsageLimitReached(t *testing.T) {
	p := activePromo()
	p.MaxUses = intPtr(10)
	p.UsedCount = 10

	// Fails regardless of order amount.
	for _, amount := range []int64{100, 50000, 10000000} {
		verr := Evaluate(p, amount, now)
		require.NotNil(t, verr)
		assert.Equal(t, ReasonUsageLimitReached, verr.Reason)
	}
}

func TestEvaluateNilMaxUsesIsUnlimited(t *testing.T) {
	p := activePromo()
	p.MaxUses = nil
	p.UsedCount = 1000000
	assert.Nil(t, Evaluate(p, 100000, now))
}

func TestEvaluateBelowMinimum(t *testing.T) {
	verr := Evaluate(activePromo(), 30000, now)
	require.NotNil(t, verr)
	assert.Equal(t, ReasonBelowMinimum, verr.Reason)
	// The user needs to know the bar to clear.
	assert.Contains(t, verr.Message, "500.00")
}

func TestEvaluateFailureOrderShortCircuits(t *testing.T) {
	// Expired wins over usage and minimum when several checks would fail.
	p := activePromo()
	p.ValidUntil = timePtr(now.Add(-time.Hour))
	p.MaxUses = intPtr(1)
	p.UsedCount = 5

	verr := Evaluate(p, 1, now)
	require.NotNil(t, verr)
	assert.Equal(t, ReasonExpired, verr.Reason)

	// Usage wins over minimum.
	p = activePromo()
	p.MaxUses = intPtr(1)
	p.UsedCount = 1
	verr = Evaluate(p, 1, now)
	require.NotNil(t, verr)
	assert.Equal(t, ReasonUsageLimitReached, verr.Reason)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	p := activePromo()
	p.MaxUses = intPtr(5)
	p.UsedCount = 3

	first := Evaluate(p, 60000, now)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Evaluate(p, 60000, now))
	}
}

func TestAppliedPromoDiscountTracksSubtotal(t *testing.T) {
	// A percentage promo recomputed against a changed subtotal.
	applied := AppliedPromo{
		Code:          "SAVE20",
		DiscountType:  pricing.DiscountPercentage,
		DiscountValue: 20,
	}

	assert.Equal(t, int64(20000), pricing.DiscountFor(applied.DiscountType, applied.DiscountValue, 100000))
	assert.Equal(t, int64(10000), pricing.DiscountFor(applied.DiscountType, applied.DiscountValue, 50000))
}
