package models

import "time"

// BookingSession is the wizard's working state for one booking attempt.
// Service and Professional are loaded once when the session starts and are
// not modified afterwards.
type BookingSession struct {
	SessionID    string        `json:"sessionId"`
	CustomerID   string        `json:"customerId,omitempty"`
	CurrentStep  BookingStep   `json:"currentStep"`
	Service      Service       `json:"service"`
	Professional Professional  `json:"professional"`
	SelectedDate string        `json:"selectedDate,omitempty"` // "YYYY-MM-DD"
	SelectedTime string        `json:"selectedTime,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Payment      PaymentFields `json:"payment"`
	Processing   bool          `json:"processing"`
	PaymentError string        `json:"paymentError,omitempty"`
	Attempts     int           `json:"paymentAttempts,omitempty"` // charges started
	PaymentID    string        `json:"paymentId,omitempty"`
	BookingID    string        `json:"bookingId,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
