package models

import "time"

// Service is a bookable offering listed by a professional.
type Service struct {
	ID             string    `bson:"id" json:"id"`
	ProfessionalID string    `bson:"professional_id" json:"professionalId"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description" json:"description"`
	Duration       int       `bson:"duration" json:"duration"` // minutes
	Price          float64   `bson:"price" json:"price"`
	Category       string    `bson:"category" json:"category"`
	Images         []string  `bson:"images" json:"images"`
	Active         bool      `bson:"active" json:"active"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

// Professional is the business offering services on the marketplace.
type Professional struct {
	ID           string    `bson:"id" json:"id"`
	UserID       string    `bson:"user_id" json:"userId"`
	BusinessName string    `bson:"business_name" json:"businessName"`
	Description  string    `bson:"description" json:"description"`
	Location     string    `bson:"location" json:"location"`
	Avatar       string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Rating       float64   `bson:"rating" json:"rating"`
	ReviewCount  int       `bson:"review_count" json:"reviewCount"`
	Verified     bool      `bson:"verified" json:"verified"`
	Specialties  []string  `bson:"specialties" json:"specialties"`
	PriceRange   string    `bson:"price_range" json:"priceRange"`
	Availability bool      `bson:"availability" json:"availability"`
	TimeSlots    []string  `bson:"time_slots,omitempty" json:"timeSlots,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
