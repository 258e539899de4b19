package payment

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a charge attempt failed.
type ErrorKind string

const (
	KindDeclined       ErrorKind = "declined"
	KindNetwork        ErrorKind = "network"
	KindTimeout        ErrorKind = "timeout"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindInFlight       ErrorKind = "in_flight"
)

const defaultFailureMessage = "Payment failed. Please try again."

// PaymentError is a recoverable charge failure. Message is safe to show to
// the customer; Err carries the underlying cause for logs.
type PaymentError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("payment %s: %s", e.Kind, e.Message)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// NewPaymentError builds a PaymentError with the default customer message
// when msg is empty.
func NewPaymentError(kind ErrorKind, msg string, err error) *PaymentError {
	if msg == "" {
		msg = defaultFailureMessage
	}
	return &PaymentError{Kind: kind, Message: msg, Err: err}
}

// AsPaymentError extracts a PaymentError from err, if any.
func AsPaymentError(err error) (*PaymentError, bool) {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
