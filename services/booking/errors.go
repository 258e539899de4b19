package booking

import "errors"

var (
	// ErrServiceNotFound is terminal for a session: the host can only go back.
	ErrServiceNotFound   = errors.New("service not found")
	ErrSessionNotFound   = errors.New("booking session not found or expired")
	ErrCannotProceed     = errors.New("current step is incomplete")
	ErrPaymentInProgress = errors.New("a payment is already being processed")
	ErrInvalidTransition = errors.New("transition not allowed from the current step")
	ErrSlotUnavailable   = errors.New("time slot is not available")
	ErrDateUnavailable   = errors.New("date is not available")
	ErrUnsupportedMethod = errors.New("unsupported payment method")
)
