package models

import "time"

const (
	NoticeBookingConfirmed = "booking_confirmed"
	NoticeBookingReminder  = "booking_reminder"
	NoticeProfileShared    = "profile_shared"
)

// Notice is a platform-neutral message handed to the notification port.
type Notice struct {
	Type           string            `json:"type"`
	ProfessionalID string            `json:"professionalId,omitempty"`
	CustomerID     string            `json:"customerId,omitempty"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Data           map[string]string `json:"data,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ReminderPayload is the body of an appointment reminder task.
type ReminderPayload struct {
	BookingID      string `json:"bookingId"`
	CustomerID     string `json:"customerId"`
	ProfessionalID string `json:"professionalId"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	FireDate       string `json:"fireDate"`
}
