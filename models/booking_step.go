package models

import "fmt"

// BookingStep identifies one stage of the booking wizard. The numeric order
// is the wizard order; StepService is the zero value and the initial step.
type BookingStep int

const (
	StepService BookingStep = iota
	StepDateTime
	StepDetails
	StepPayment
	StepConfirmation
)

type stepInfo struct {
	key         string
	title       string
	description string
}

var stepTable = map[BookingStep]stepInfo{
	StepService:      {"service", "Service", "Review service details"},
	StepDateTime:     {"datetime", "Date & Time", "Choose your appointment"},
	StepDetails:      {"details", "Details", "Add special requests"},
	StepPayment:      {"payment", "Payment", "Complete your booking"},
	StepConfirmation: {"confirmation", "Confirmation", "Booking confirmed"},
}

// AllSteps returns the steps in wizard order.
func AllSteps() []BookingStep {
	return []BookingStep{StepService, StepDateTime, StepDetails, StepPayment, StepConfirmation}
}

func (s BookingStep) Valid() bool {
	_, ok := stepTable[s]
	return ok
}

func (s BookingStep) String() string {
	if info, ok := stepTable[s]; ok {
		return info.key
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func (s BookingStep) Title() string       { return stepTable[s].title }
func (s BookingStep) Description() string { return stepTable[s].description }

// IsTerminal reports whether no transition leaves this step.
func (s BookingStep) IsTerminal() bool { return s == StepConfirmation }

// Next returns the step after s, or false when s is terminal.
func (s BookingStep) Next() (BookingStep, bool) {
	switch s {
	case StepService:
		return StepDateTime, true
	case StepDateTime:
		return StepDetails, true
	case StepDetails:
		return StepPayment, true
	case StepPayment:
		return StepConfirmation, true
	}
	return s, false
}

// Prev returns the step before s, or false when s is the first step.
func (s BookingStep) Prev() (BookingStep, bool) {
	switch s {
	case StepDateTime:
		return StepService, true
	case StepDetails:
		return StepDateTime, true
	case StepPayment:
		return StepDetails, true
	case StepConfirmation:
		return StepPayment, true
	}
	return s, false
}

// Before reports whether s comes earlier in the wizard than other.
func (s BookingStep) Before(other BookingStep) bool { return s < other }

func (s BookingStep) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid booking step %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *BookingStep) UnmarshalText(text []byte) error {
	step, err := ParseBookingStep(string(text))
	if err != nil {
		return err
	}
	*s = step
	return nil
}

// ParseBookingStep maps a step key such as "datetime" to its BookingStep.
func ParseBookingStep(key string) (BookingStep, error) {
	for step, info := range stepTable {
		if info.key == key {
			return step, nil
		}
	}
	return StepService, fmt.Errorf("unknown booking step %q", key)
}
