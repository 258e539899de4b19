package payment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"beautybook/models"
	"beautybook/services/payment"
)

func cardRequest(amount float64) models.PaymentRequest {
	return models.PaymentRequest{Amount: amount, Method: models.PaymentMethodCard}
}

func TestProcessPayment_Success(t *testing.T) {
	gw := payment.GatewayFunc(func(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
		if req.Currency != "usd" {
			t.Errorf("currency not defaulted: %q", req.Currency)
		}
		return &models.PaymentResult{PaymentID: "pay_1"}, nil
	})
	p := payment.NewProcessor(gw, time.Second, "usd", nil)

	res, err := p.ProcessPayment(context.Background(), cardRequest(162))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.PaymentID != "pay_1" || res.Amount != 162 || res.Method != models.PaymentMethodCard {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestProcessPayment_InvalidRequest(t *testing.T) {
	called := false
	gw := payment.GatewayFunc(func(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
		called = true
		return &models.PaymentResult{PaymentID: "x"}, nil
	})
	p := payment.NewProcessor(gw, 0, "", nil)

	for _, req := range []models.PaymentRequest{
		{Amount: 0, Method: models.PaymentMethodCard},
		{Amount: 10, Method: "bitcoin"},
	} {
		_, err := p.ProcessPayment(context.Background(), req)
		pe, ok := payment.AsPaymentError(err)
		if !ok || pe.Kind != payment.KindInvalidRequest {
			t.Fatalf("expected invalid request error, got %v", err)
		}
	}
	if called {
		t.Fatal("gateway must not be called for invalid requests")
	}
}

func TestProcessPayment_TimeoutIsClassified(t *testing.T) {
	gw := payment.GatewayFunc(func(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	p := payment.NewProcessor(gw, 20*time.Millisecond, "usd", nil)

	_, err := p.ProcessPayment(context.Background(), cardRequest(10))
	pe, ok := payment.AsPaymentError(err)
	if !ok || pe.Kind != payment.KindTimeout {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("timeout error should wrap the deadline: %v", err)
	}
}

func TestProcessPayment_GatewayErrorsBecomePaymentErrors(t *testing.T) {
	declined := payment.NewPaymentError(payment.KindDeclined, "Card declined", nil)
	cases := []struct {
		err  error
		kind payment.ErrorKind
	}{
		{declined, payment.KindDeclined},
		{errors.New("connection reset"), payment.KindNetwork},
	}
	for _, tc := range cases {
		gw := payment.GatewayFunc(func(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
			return nil, tc.err
		})
		_, err := payment.NewProcessor(gw, time.Second, "usd", nil).ProcessPayment(context.Background(), cardRequest(10))
		pe, ok := payment.AsPaymentError(err)
		if !ok || pe.Kind != tc.kind || pe.Message == "" {
			t.Fatalf("error %v: got %v", tc.err, err)
		}
	}
}

func TestProcessPayment_SameKeyNeverOverlaps(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	gw := payment.GatewayFunc(func(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return &models.PaymentResult{PaymentID: "pay_1"}, nil
	})
	p := payment.NewProcessor(gw, time.Second, "usd", nil)
	req := cardRequest(10)
	req.Idempotency = "session-1"

	done := make(chan error, 1)
	go func() {
		_, err := p.ProcessPayment(context.Background(), req)
		done <- err
	}()
	<-started

	_, err := p.ProcessPayment(context.Background(), req)
	pe, ok := payment.AsPaymentError(err)
	if !ok || pe.Kind != payment.KindInFlight {
		t.Fatalf("expected in-flight rejection, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if calls != 1 {
		t.Fatalf("gateway called %d times, want 1", calls)
	}
}

func TestSimulatedGateway(t *testing.T) {
	ok := payment.NewSimulatedGateway(0, 0.9).WithRandomSource(func() float64 { return 0.5 })
	res, err := ok.Charge(context.Background(), cardRequest(20))
	if err != nil || res.PaymentID == "" || res.PaymentID[:4] != "pay_" {
		t.Fatalf("expected success, got %+v %v", res, err)
	}

	fail := payment.NewSimulatedGateway(0, 0.9).WithRandomSource(func() float64 { return 0.95 })
	_, err = fail.Charge(context.Background(), cardRequest(20))
	pe, isPE := payment.AsPaymentError(err)
	if !isPE || pe.Kind != payment.KindDeclined || pe.Message != "Payment failed. Please try again." {
		t.Fatalf("expected declined, got %v", err)
	}
}

func TestSimulatedGateway_SuccessRateBounds(t *testing.T) {
	never := payment.NewSimulatedGateway(0, 0).WithRandomSource(func() float64 { return 0 })
	if _, err := never.Charge(context.Background(), cardRequest(20)); err == nil {
		t.Fatal("success rate 0 must always decline")
	}

	always := payment.NewSimulatedGateway(0, 1).WithRandomSource(func() float64 { return 0.9999 })
	if res, err := always.Charge(context.Background(), cardRequest(20)); err != nil || res.PaymentID == "" {
		t.Fatalf("success rate 1 must always succeed, got %+v %v", res, err)
	}
}

func TestSimulatedGateway_HonorsCancellation(t *testing.T) {
	g := payment.NewSimulatedGateway(time.Hour, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Charge(ctx, cardRequest(20)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
