package booking

// TaxRate is applied to the service price at every step.
const TaxRate = 0.08

// PriceBreakdown is derived from the service price on demand and never stored.
type PriceBreakdown struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Breakdown returns subtotal, tax and total for a service price.
func Breakdown(price float64) PriceBreakdown {
	tax := price * TaxRate
	return PriceBreakdown{
		Subtotal: price,
		Tax:      tax,
		Total:    price + tax,
	}
}
