package booking

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"beautybook/models"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Callbacks are the host hooks a Wizard invokes. Either may be nil.
type Callbacks struct {
	// OnBack fires when the customer leaves the flow from the first or the
	// terminal step.
	OnBack func()
	// OnBookingComplete fires once per session, on reaching confirmation.
	OnBookingComplete func(bookingID string)
}

// PaymentProcessor executes one charge attempt.
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error)
}

// WizardDeps are the collaborators of a Wizard.
type WizardDeps struct {
	Processor PaymentProcessor
	Catalog   Catalog
	Callbacks Callbacks
	Logger    *zap.Logger
	Now       func() time.Time
}

// Wizard drives one booking session through its steps. All state changes go
// through Apply; the mutex only serializes callers.
type Wizard struct {
	mu         sync.Mutex
	session    models.BookingSession
	deps       WizardDeps
	completed  bool
	lastActive time.Time
}

// NewWizard wraps session. A session already at confirmation never fires
// OnBookingComplete again.
func NewWizard(session models.BookingSession, deps WizardDeps) *Wizard {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Wizard{
		session:    session,
		deps:       deps,
		completed:  session.CurrentStep.IsTerminal(),
		lastActive: deps.Now(),
	}
}

// StepState places a step relative to the current one.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepUpcoming  StepState = "upcoming"
)

type StepView struct {
	Step        models.BookingStep `json:"step"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	State       StepState          `json:"state"`
}

// View is what the host renders for the current step.
type View struct {
	Session    models.BookingSession `json:"session"`
	Pricing    PriceBreakdown        `json:"pricing"`
	Steps      []StepView            `json:"steps"`
	CanProceed bool                  `json:"canProceed"`
}

func (w *Wizard) SessionID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.SessionID
}

// Snapshot returns a copy of the session.
func (w *Wizard) Snapshot() models.BookingSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.copySession()
}

func (w *Wizard) copySession() models.BookingSession {
	s := w.session
	s.Payment.FieldErrors = maps.Clone(s.Payment.FieldErrors)
	s.Service.Images = slices.Clone(s.Service.Images)
	s.Professional.Specialties = slices.Clone(s.Professional.Specialties)
	s.Professional.TimeSlots = slices.Clone(s.Professional.TimeSlots)
	return s
}

func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{
		Session:    w.copySession(),
		Pricing:    Breakdown(w.session.Service.Price),
		Steps:      stepViews(w.session.CurrentStep),
		CanProceed: CanProceed(w.session, w.session.CurrentStep),
	}
}

func (w *Wizard) Pricing() PriceBreakdown {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Breakdown(w.session.Service.Price)
}

func (w *Wizard) CanProceed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return CanProceed(w.session, w.session.CurrentStep)
}

func (w *Wizard) Processing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Processing
}

// IdleFor reports how long the wizard has gone without a change.
func (w *Wizard) IdleFor(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastActive)
}

func stepViews(current models.BookingStep) []StepView {
	steps := models.AllSteps()
	out := make([]StepView, 0, len(steps))
	for _, st := range steps {
		state := StepUpcoming
		switch {
		case st == current:
			state = StepCurrent
		case st.Before(current):
			state = StepCompleted
		}
		out = append(out, StepView{Step: st, Title: st.Title(), Description: st.Description(), State: state})
	}
	return out
}

// apply must be called with w.mu held.
func (w *Wizard) apply(e Event) error {
	next, err := Apply(w.session, e)
	if err != nil {
		return err
	}
	next.UpdatedAt = w.deps.Now().UTC()
	w.session = next
	w.lastActive = w.deps.Now()
	return nil
}

func (w *Wizard) do(e Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.apply(e)
}

// AvailableSlots lists the slots the professional offers on date.
func (w *Wizard) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	w.mu.Lock()
	profID := w.session.Professional.ID
	prof := w.session.Professional
	w.mu.Unlock()

	if date != "" {
		if err := w.checkDate(date); err != nil {
			return nil, err
		}
	}
	if w.deps.Catalog == nil {
		return SlotsFor(&prof), nil
	}
	return w.deps.Catalog.AvailableSlots(ctx, profID, date)
}

// checkDate rejects malformed dates, past dates and Sundays.
func (w *Wizard) checkDate(date string) error {
	now := w.deps.Now()
	d, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrDateUnavailable, date)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrDateUnavailable, date)
	}
	if d.Weekday() == time.Sunday {
		return fmt.Errorf("%w: closed on Sundays", ErrDateUnavailable)
	}
	return nil
}

// SelectDate sets the appointment date. The selected time is kept.
func (w *Wizard) SelectDate(date string) error {
	if err := w.checkDate(date); err != nil {
		return err
	}
	return w.do(SelectDate{Date: date})
}

// SelectTime sets the appointment slot, which must be one the professional
// offers on the selected date.
func (w *Wizard) SelectTime(ctx context.Context, slot string) error {
	date := w.Snapshot().SelectedDate
	slots, err := w.AvailableSlots(ctx, date)
	if err != nil {
		return err
	}
	if !slices.Contains(slots, slot) {
		return fmt.Errorf("%w: %q", ErrSlotUnavailable, slot)
	}
	return w.do(SelectTime{Time: slot})
}

func (w *Wizard) SetNotes(notes string) error {
	return w.do(SetNotes{Notes: notes})
}

func (w *Wizard) Advance() error {
	return w.do(Advance{})
}

func (w *Wizard) Retreat() error {
	return w.do(Retreat{})
}

// Back leaves the flow through OnBack from the first and the terminal step
// and retreats one step otherwise. It reports whether the flow was left.
func (w *Wizard) Back() (bool, error) {
	w.mu.Lock()
	step := w.session.CurrentStep
	if w.session.Processing {
		w.mu.Unlock()
		return false, ErrPaymentInProgress
	}
	if step == models.StepService || step.IsTerminal() {
		w.lastActive = w.deps.Now()
		w.mu.Unlock()
		if cb := w.deps.Callbacks.OnBack; cb != nil {
			cb()
		}
		return true, nil
	}
	err := w.apply(Retreat{})
	w.mu.Unlock()
	return false, err
}

func (w *Wizard) SelectPaymentMethod(method models.PaymentMethod) error {
	return w.do(SelectMethod{Method: method})
}

// UpdatePaymentField applies one keystroke. Input that would overflow the
// field is dropped and the previous value kept.
func (w *Wizard) UpdatePaymentField(field, value string) error {
	return w.do(EditField{Field: field, Value: value})
}
