package models

import "time"

// Review is a customer's rating of a completed booking.
type Review struct {
	ID             string    `bson:"id" json:"id"`
	BookingID      string    `bson:"booking_id" json:"bookingId"`
	CustomerID     string    `bson:"customer_id" json:"customerId"`
	ProfessionalID string    `bson:"professional_id" json:"professionalId"`
	Rating         int       `bson:"rating" json:"rating"`
	Comment        string    `bson:"comment" json:"comment"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

// StarCount is the share of reviews carrying one star value.
type StarCount struct {
	Rating     int     `json:"rating"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RatingSummary is derived from a review collection and never persisted.
// Distribution is ordered 5 stars down to 1.
type RatingSummary struct {
	Total        int         `json:"total"`
	Average      float64     `json:"average"`
	Distribution []StarCount `json:"distribution"`
}

// Star returns the distribution entry for the given star value.
func (s RatingSummary) Star(rating int) StarCount {
	for _, sc := range s.Distribution {
		if sc.Rating == rating {
			return sc
		}
	}
	return StarCount{Rating: rating}
}
