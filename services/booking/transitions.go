package booking

import (
	"fmt"
	"maps"

	"beautybook/models"
	"beautybook/services/payment"
)

// Event is a single change to a booking session. Apply is the only way
// events take effect.
type Event interface {
	apply(s models.BookingSession) (models.BookingSession, error)
}

// Apply returns the session that results from e. On error the input session
// is returned unchanged.
func Apply(s models.BookingSession, e Event) (models.BookingSession, error) {
	next, err := e.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}

// CanProceed reports whether the session may advance past step.
func CanProceed(s models.BookingSession, step models.BookingStep) bool {
	switch step {
	case models.StepService, models.StepDetails, models.StepPayment:
		return true
	case models.StepDateTime:
		return s.SelectedDate != "" && s.SelectedTime != ""
	}
	return false
}

type (
	SelectDate struct{ Date string }
	SelectTime struct{ Time string }
	SetNotes   struct{ Notes string }
	Advance    struct{}
	Retreat    struct{}

	SelectMethod struct{ Method models.PaymentMethod }
	// EditField applies one keystroke to a payment field.
	EditField struct {
		Field string
		Value string
	}
	FieldsRejected   struct{ Errors payment.FieldErrors }
	PaymentStarted   struct{}
	PaymentSucceeded struct {
		PaymentID string
		BookingID string
	}
	PaymentFailed struct{ Message string }
)

func requireStep(s models.BookingSession, step models.BookingStep) error {
	if s.CurrentStep != step {
		return fmt.Errorf("%w: %s requires %s", ErrInvalidTransition, s.CurrentStep, step)
	}
	return nil
}

func (e SelectDate) apply(s models.BookingSession) (models.BookingSession, error) {
	if err := requireStep(s, models.StepDateTime); err != nil {
		return s, err
	}
	s.SelectedDate = e.Date
	return s, nil
}

func (e SelectTime) apply(s models.BookingSession) (models.BookingSession, error) {
	if err := requireStep(s, models.StepDateTime); err != nil {
		return s, err
	}
	s.SelectedTime = e.Time
	return s, nil
}

func (e SetNotes) apply(s models.BookingSession) (models.BookingSession, error) {
	if err := requireStep(s, models.StepDetails); err != nil {
		return s, err
	}
	s.Notes = e.Notes
	return s, nil
}

func (Advance) apply(s models.BookingSession) (models.BookingSession, error) {
	switch s.CurrentStep {
	case models.StepPayment:
		return s, fmt.Errorf("%w: submit payment to continue", ErrInvalidTransition)
	case models.StepConfirmation:
		return s, fmt.Errorf("%w: booking is already confirmed", ErrInvalidTransition)
	}
	if !CanProceed(s, s.CurrentStep) {
		return s, ErrCannotProceed
	}
	next, ok := s.CurrentStep.Next()
	if !ok {
		return s, ErrInvalidTransition
	}
	s.CurrentStep = next
	return s, nil
}

func (Retreat) apply(s models.BookingSession) (models.BookingSession, error) {
	if s.Processing {
		return s, ErrPaymentInProgress
	}
	if s.CurrentStep == models.StepService || s.CurrentStep.IsTerminal() {
		return s, fmt.Errorf("%w: cannot go back from %s", ErrInvalidTransition, s.CurrentStep)
	}
	prev, ok := s.CurrentStep.Prev()
	if !ok {
		return s, ErrInvalidTransition
	}
	s.CurrentStep = prev
	return s, nil
}

func (e SelectMethod) apply(s models.BookingSession) (models.BookingSession, error) {
	if err := requireStep(s, models.StepPayment); err != nil {
		return s, err
	}
	if s.Processing {
		return s, ErrPaymentInProgress
	}
	if !e.Method.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnsupportedMethod, e.Method)
	}
	s.Payment.Method = e.Method
	s.Payment.FieldErrors = nil
	return s, nil
}

func (e EditField) apply(s models.BookingSession) (models.BookingSession, error) {
	if err := requireStep(s, models.StepPayment); err != nil {
		return s, err
	}
	if s.Processing {
		return s, ErrPaymentInProgress
	}
	fields, _, err := payment.UpdateField(s.Payment, e.Field, e.Value)
	if err != nil {
		return s, err
	}
	s.Payment = fields
	return s, nil
}

func (e FieldsRejected) apply(s models.BookingSession) (models.BookingSession, error) {
	s.Payment.FieldErrors = maps.Clone(map[string]string(e.Errors))
	return s, nil
}

func (PaymentStarted) apply(s models.BookingSession) (models.BookingSession, error) {
	if err := requireStep(s, models.StepPayment); err != nil {
		return s, err
	}
	if s.Processing {
		return s, ErrPaymentInProgress
	}
	s.Processing = true
	s.Attempts++
	s.PaymentError = ""
	s.Payment.FieldErrors = nil
	return s, nil
}

func (e PaymentSucceeded) apply(s models.BookingSession) (models.BookingSession, error) {
	if !s.Processing {
		return s, fmt.Errorf("%w: no payment in progress", ErrInvalidTransition)
	}
	s.Processing = false
	s.CurrentStep = models.StepConfirmation
	s.PaymentID = e.PaymentID
	s.BookingID = e.BookingID
	return s, nil
}

func (e PaymentFailed) apply(s models.BookingSession) (models.BookingSession, error) {
	if !s.Processing {
		return s, fmt.Errorf("%w: no payment in progress", ErrInvalidTransition)
	}
	s.Processing = false
	s.PaymentError = e.Message
	return s, nil
}
