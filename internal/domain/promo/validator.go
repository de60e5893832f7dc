// internal/domain/promo/validator.go
package promo

import "time"

// Reason classifies why a promo code was rejected
type Reason string

const (
	ReasonNotFound          Reason = "not_found"
	ReasonExpired           Reason = "expired"
	ReasonUsageLimitReached Reason = "usage_limit_reached"
	ReasonBelowMinimum      Reason = "below_minimum"
)

// ValidationError describes a promo rejection. It is a user-facing,
// recoverable error: nothing is mutated when one is returned.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Evaluate decides whether a promo may be applied to the given order
// amount at the given instant. It is a pure decision: same record, amount
// and clock always yield the same verdict. Checks short-circuit in a fixed
// order and the first failure wins.
//
// A code whose validity window has not opened yet is reported as not
// found: a not-yet-live code is indistinguishable from an absent one.
func Evaluate(p *PromoCode, orderAmount int64, now time.Time) *ValidationError {
	if p == nil || !p.IsActive || now.Before(p.ValidFrom) {
		return &ValidationError{
			Reason:  ReasonNotFound,
			Message: "invalid promo code",
		}
	}

	if p.ValidUntil != nil && p.ValidUntil.Before(now) {
		return &ValidationError{
			Reason:  ReasonExpired,
			Message: "this promo code has expired",
		}
	}

	if p.MaxUses != nil && p.UsedCount >= *p.MaxUses {
		return &ValidationError{
			Reason:  ReasonUsageLimitReached,
			Message: "this promo code has reached its usage limit",
		}
	}

	if orderAmount < p.MinOrderAmount {
		return &ValidationError{
			Reason:  ReasonBelowMinimum,
			Message: belowMinimumMessage(p.MinOrderAmount),
		}
	}

	return nil
}
