package payment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"beautybook/models"
	"beautybook/services/payment"

	"github.com/stripe/stripe-go/v76"
)

// stripeServer answers every PaymentIntent create with body and records the
// last request form and idempotency key.
func stripeServer(t *testing.T, body string) (*payment.StripeGateway, *url.Values, *string) {
	t.Helper()
	form := &url.Values{}
	key := new(string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		*form = r.PostForm
		*key = r.Header.Get("Idempotency-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return payment.NewStripeGatewayWithBackend("sk_test_123", backend), form, key
}

func stripeRequest() models.PaymentRequest {
	return models.PaymentRequest{
		Amount:       162,
		Method:       models.PaymentMethodCard,
		Currency:     "usd",
		Idempotency:  "sess-1-2",
		PaymentToken: "pm_card_visa",
		Description:  "Bridal Makeup",
	}
}

func TestStripeGateway_ConfirmsWithPaymentMethod(t *testing.T) {
	gw, form, key := stripeServer(t, `{"id":"pi_123","object":"payment_intent","status":"succeeded"}`)

	res, err := gw.Charge(context.Background(), stripeRequest())
	if err != nil || res.PaymentID != "pi_123" {
		t.Fatalf("charge = %+v, %v", res, err)
	}
	if form.Get("confirm") != "true" || form.Get("payment_method") != "pm_card_visa" || form.Get("amount") != "16200" {
		t.Fatalf("form = %v", *form)
	}
	if *key != "sess-1-2" {
		t.Fatalf("idempotency key = %q", *key)
	}
}

func TestStripeGateway_UnconfirmedIntentIsNotPaid(t *testing.T) {
	gw, _, _ := stripeServer(t, `{"id":"pi_123","object":"payment_intent","status":"requires_payment_method"}`)

	res, err := gw.Charge(context.Background(), stripeRequest())
	pe, ok := payment.AsPaymentError(err)
	if res != nil || !ok || pe.Kind != payment.KindDeclined {
		t.Fatalf("expected declined, got %+v %v", res, err)
	}
}

func TestStripeGateway_SurfacesLastPaymentError(t *testing.T) {
	gw, _, _ := stripeServer(t, `{"id":"pi_123","object":"payment_intent","status":"requires_payment_method",
		"last_payment_error":{"type":"card_error","message":"Your card was declined."}}`)

	_, err := gw.Charge(context.Background(), stripeRequest())
	if pe, ok := payment.AsPaymentError(err); !ok || pe.Message != "Your card was declined." {
		t.Fatalf("expected card message, got %v", err)
	}
}

func TestStripeGateway_NonFinalStatuses(t *testing.T) {
	for _, status := range []string{"requires_action", "processing", "canceled"} {
		gw, _, _ := stripeServer(t, `{"id":"pi_123","object":"payment_intent","status":"`+status+`"}`)
		if _, err := gw.Charge(context.Background(), stripeRequest()); err == nil {
			t.Fatalf("%s: expected error", status)
		}
	}

	gw, _, _ := stripeServer(t, `{"id":"pi_123","object":"payment_intent","status":"requires_capture"}`)
	if _, err := gw.Charge(context.Background(), stripeRequest()); err != nil {
		t.Fatalf("requires_capture: %v", err)
	}
}

func TestStripeGateway_RequiresPaymentToken(t *testing.T) {
	gw, _, _ := stripeServer(t, `{}`)
	req := stripeRequest()
	req.PaymentToken = ""
	_, err := gw.Charge(context.Background(), req)
	if pe, ok := payment.AsPaymentError(err); !ok || pe.Kind != payment.KindInvalidRequest {
		t.Fatalf("expected invalid request, got %v", err)
	}
}
