package models

// Analytics is one day of a professional's business activity.
type Analytics struct {
	ProfessionalID string  `bson:"professional_id" json:"professionalId"`
	Date           string  `bson:"date" json:"date"`
	Revenue        float64 `bson:"revenue" json:"revenue"`
	Bookings       int     `bson:"bookings" json:"bookings"`
	NewCustomers   int     `bson:"new_customers" json:"newCustomers"`
	AvgRating      float64 `bson:"avg_rating" json:"avgRating"`
}
