// internal/domain/checkout/errors.go
package checkout

import "errors"

var (
	// ErrEmptyCart is returned when checkout is attempted with no items
	ErrEmptyCart = errors.New("cart is empty")

	// ErrOnlinePaymentsDisabled is returned when no gateway is configured
	ErrOnlinePaymentsDisabled = errors.New("online payments are not available")

	// ErrInvalidPaymentSignature is returned when a capture confirmation
	// fails signature verification
	ErrInvalidPaymentSignature = errors.New("invalid payment signature")

	// ErrPaymentCapturedOrderMissing is returned when a payment was
	// captured but the checkout snapshot has expired and no order exists
	// for it. The customer was charged; support must reconcile manually.
	ErrPaymentCapturedOrderMissing = errors.New("payment captured but order could not be created")
)
