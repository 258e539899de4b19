package models

// PaymentMethod is one of the supported charge channels.
type PaymentMethod string

const (
	PaymentMethodCard      PaymentMethod = "card"
	PaymentMethodPayPal    PaymentMethod = "paypal"
	PaymentMethodApplePay  PaymentMethod = "apple_pay"
	PaymentMethodGooglePay PaymentMethod = "google_pay"
)

var paymentMethodNames = map[PaymentMethod]string{
	PaymentMethodCard:      "Credit/Debit Card",
	PaymentMethodPayPal:    "PayPal",
	PaymentMethodApplePay:  "Apple Pay",
	PaymentMethodGooglePay: "Google Pay",
}

func (m PaymentMethod) Valid() bool {
	_, ok := paymentMethodNames[m]
	return ok
}

// IsDirectCard reports whether card fields are entered in the wizard itself.
// The other methods redirect to the wallet provider.
func (m PaymentMethod) IsDirectCard() bool { return m == PaymentMethodCard }

func (m PaymentMethod) DisplayName() string { return paymentMethodNames[m] }

// PaymentFields is the raw and normalized payment input of one session.
// Card number, CVV and the processor token are never serialized.
type PaymentFields struct {
	Method         PaymentMethod     `json:"method"`
	CardNumber     string            `json:"-"`
	Expiry         string            `json:"expiry,omitempty"`
	CVV            string            `json:"-"`
	CardholderName string            `json:"cardholderName,omitempty"`
	PostalCode     string            `json:"postalCode,omitempty"`
	PaymentToken   string            `json:"-"` // processor payment method, e.g. pm_...
	FieldErrors    map[string]string `json:"fieldErrors,omitempty"`
}

// PaymentResult is the success outcome of a charge attempt.
type PaymentResult struct {
	PaymentID string        `json:"paymentId"`
	Amount    float64       `json:"amount"`
	Method    PaymentMethod `json:"method"`
}

// PaymentRequest is what the wizard asks the payment processor to charge.
type PaymentRequest struct {
	Amount      float64
	Method      PaymentMethod
	Currency    string
	Idempotency string
	// PaymentToken references a payment method tokenized by the client.
	PaymentToken string
	Description  string
	Metadata     map[string]string
}
