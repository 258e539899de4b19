package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"beautybook/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeGateway creates and confirms a PaymentIntent per charge attempt
// against the payment method the client tokenized. The intent ID is the
// payment ID handed back to the wizard.
//
// Only a succeeded intent, or one authorized and awaiting capture, counts as
// paid. Every other status is returned as a PaymentError.
type StripeGateway struct {
	client paymentintent.Client
}

func NewStripeGateway(apiKey string) *StripeGateway {
	return NewStripeGatewayWithBackend(apiKey, stripe.GetBackend(stripe.APIBackend))
}

// NewStripeGatewayWithBackend talks to Stripe through b, e.g. a backend
// pointed at a local server.
func NewStripeGatewayWithBackend(apiKey string, b stripe.Backend) *StripeGateway {
	return &StripeGateway{client: paymentintent.Client{B: b, Key: apiKey}}
}

func (g *StripeGateway) Charge(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	if req.PaymentToken == "" {
		return nil, NewPaymentError(KindInvalidRequest, "Please add a payment method.",
			errors.New("stripe: no payment method token"))
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(toMinorUnits(req.Amount)),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice(stripeMethodTypes(req.Method)),
		PaymentMethod:      stripe.String(req.PaymentToken),
		Confirm:            stripe.Bool(true),
	}
	params.Context = ctx
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.Idempotency != "" {
		params.SetIdempotencyKey(req.Idempotency)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.AddMetadata("method", string(req.Method))

	pi, err := g.client.New(params)
	if err != nil {
		return nil, stripeError(err)
	}
	if err := intentOutcome(pi); err != nil {
		return nil, err
	}
	return &models.PaymentResult{
		PaymentID: pi.ID,
		Amount:    req.Amount,
		Method:    req.Method,
	}, nil
}

func intentOutcome(pi *stripe.PaymentIntent) error {
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusRequiresCapture:
		return nil
	case stripe.PaymentIntentStatusRequiresAction:
		return NewPaymentError(KindDeclined, "Your bank needs extra verification for this payment. Please try another method.",
			fmt.Errorf("stripe: intent %s requires action", pi.ID))
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		msg := ""
		if pi.LastPaymentError != nil {
			msg = pi.LastPaymentError.Msg
		}
		return NewPaymentError(KindDeclined, msg,
			fmt.Errorf("stripe: intent %s requires a payment method", pi.ID))
	default:
		return NewPaymentError(KindDeclined, "",
			fmt.Errorf("stripe: intent %s ended in status %q", pi.ID, pi.Status))
	}
}

// Wallet payments settle through the card rails.
func stripeMethodTypes(m models.PaymentMethod) []string {
	switch m {
	case models.PaymentMethodPayPal:
		return []string{"paypal"}
	default:
		return []string{"card"}
	}
}

func stripeError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Type {
	case stripe.ErrorTypeCard:
		return NewPaymentError(KindDeclined, se.Msg, err)
	case stripe.ErrorTypeInvalidRequest, stripe.ErrorTypeIdempotency:
		return NewPaymentError(KindInvalidRequest, "", err)
	default:
		return NewPaymentError(KindNetwork, "", err)
	}
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
