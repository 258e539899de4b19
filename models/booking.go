package models

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Booking represents a confirmed booking record.
type Booking struct {
	ID              string    `bson:"id" json:"id"`
	CustomerID      string    `bson:"customer_id" json:"customerId"`
	ProfessionalID  string    `bson:"professional_id" json:"professionalId"`
	ServiceID       string    `bson:"service_id" json:"serviceId"`
	Date            string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time            string    `bson:"time" json:"time"` // slot label, e.g. "10:00 AM"
	Status          string    `bson:"status" json:"status"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	TotalAmount     float64   `bson:"total_amount" json:"totalAmount"`
	PaymentMethod   string    `bson:"payment_method" json:"paymentMethod"`
	PaymentStatus   string    `bson:"payment_status" json:"paymentStatus"`
	PaymentIntentID string    `bson:"payment_intent_id,omitempty" json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}
