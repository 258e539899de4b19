package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"beautybook/models"
	"beautybook/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitPayment charges the session total and moves to confirmation on
// success.
//
// Card fields are validated first; a failure returns payment.FieldErrors and
// changes nothing else. A call made while a charge is in flight returns
// ErrPaymentInProgress without reaching the processor. A charge failure
// returns the processor's error and leaves the session at the payment step
// so the customer can retry.
//
// The selected slot is looked up again before charging; if another booking
// took it, ErrSlotUnavailable is returned and the processor is not called.
// Each attempt charges under its own idempotency key so a retry after a
// decline reaches the processor instead of replaying the first response.
func (w *Wizard) SubmitPayment(ctx context.Context) error {
	w.mu.Lock()
	if w.session.Processing {
		w.mu.Unlock()
		return ErrPaymentInProgress
	}
	if w.session.CurrentStep != models.StepPayment {
		w.mu.Unlock()
		return fmt.Errorf("%w: payment is submitted from the payment step", ErrInvalidTransition)
	}
	if w.session.Payment.Method.IsDirectCard() {
		if errs := payment.Validate(w.session.Payment); len(errs) > 0 {
			_ = w.apply(FieldsRejected{Errors: errs})
			w.mu.Unlock()
			return errs
		}
	}
	if err := w.apply(PaymentStarted{}); err != nil {
		w.mu.Unlock()
		return err
	}
	s := w.session
	w.mu.Unlock()

	if err := w.checkSlotHeld(ctx, s); err != nil {
		msg := "Sorry, that time is no longer available. Please choose another time."
		if !errors.Is(err, ErrSlotUnavailable) {
			msg = "We couldn't confirm your time slot. Please try again."
		}
		w.mu.Lock()
		_ = w.apply(PaymentFailed{Message: msg})
		w.mu.Unlock()
		w.deps.Logger.Warn("Booking slot check failed",
			zap.String("sessionID", s.SessionID), zap.Error(err))
		return err
	}

	req := models.PaymentRequest{
		Amount:       Breakdown(s.Service.Price).Total,
		Method:       s.Payment.Method,
		Idempotency:  AttemptKey(s),
		PaymentToken: s.Payment.PaymentToken,
		Description:  s.Service.Name,
		Metadata: map[string]string{
			"sessionId":      s.SessionID,
			"serviceId":      s.Service.ID,
			"professionalId": s.Professional.ID,
		},
	}
	res, chargeErr := w.charge(ctx, req)

	w.mu.Lock()
	if chargeErr != nil {
		msg := "Payment failed. Please try again."
		if pe, ok := payment.AsPaymentError(chargeErr); ok {
			msg = pe.Message
		}
		_ = w.apply(PaymentFailed{Message: msg})
		w.mu.Unlock()
		w.deps.Logger.Warn("Booking payment failed",
			zap.String("sessionID", s.SessionID), zap.Error(chargeErr))
		return chargeErr
	}

	bookingID := "booking_" + uuid.New().String()
	if err := w.apply(PaymentSucceeded{PaymentID: res.PaymentID, BookingID: bookingID}); err != nil {
		w.mu.Unlock()
		return err
	}
	fire := !w.completed
	w.completed = true
	w.mu.Unlock()

	w.deps.Logger.Info("Booking confirmed",
		zap.String("sessionID", s.SessionID),
		zap.String("bookingID", bookingID),
		zap.String("paymentID", res.PaymentID),
	)
	if cb := w.deps.Callbacks.OnBookingComplete; fire && cb != nil {
		cb(bookingID)
	}
	return nil
}

// AttemptKey is the idempotency key of the session's current charge attempt.
func AttemptKey(s models.BookingSession) string {
	return fmt.Sprintf("%s-%d", s.SessionID, s.Attempts)
}

// checkSlotHeld reports ErrSlotUnavailable when the session's slot is no
// longer offered for its date.
func (w *Wizard) checkSlotHeld(ctx context.Context, s models.BookingSession) error {
	slots, err := w.AvailableSlots(ctx, s.SelectedDate)
	if err != nil {
		return err
	}
	if !slices.Contains(slots, s.SelectedTime) {
		return fmt.Errorf("%w: %q on %s", ErrSlotUnavailable, s.SelectedTime, s.SelectedDate)
	}
	return nil
}

func (w *Wizard) charge(ctx context.Context, req models.PaymentRequest) (res *models.PaymentResult, err error) {
	if w.deps.Processor == nil {
		return nil, payment.NewPaymentError(payment.KindNetwork, "", fmt.Errorf("no payment processor configured"))
	}
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, payment.NewPaymentError(payment.KindNetwork, "", fmt.Errorf("payment processor panic: %v", r))
		}
	}()
	res, err = w.deps.Processor.ProcessPayment(ctx, req)
	if err == nil && (res == nil || res.PaymentID == "") {
		err = payment.NewPaymentError(payment.KindNetwork, "", fmt.Errorf("processor returned no payment id"))
	}
	return res, err
}
