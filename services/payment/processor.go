package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"beautybook/models"

	"go.uber.org/zap"
)

// Processor executes charge attempts through a Gateway. It never inspects
// card fields; callers validate them beforehand.
type Processor struct {
	gateway  Gateway
	timeout  time.Duration
	currency string
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewProcessor returns a Processor that bounds every attempt by timeout.
// A zero timeout leaves the caller's deadline in charge.
func NewProcessor(gateway Gateway, timeout time.Duration, currency string, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = "usd"
	}
	return &Processor{
		gateway:  gateway,
		timeout:  timeout,
		currency: currency,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// ProcessPayment charges req.Amount via req.Method. Two attempts sharing an
// idempotency key never overlap; the second is rejected with KindInFlight.
func (p *Processor) ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, NewPaymentError(KindInvalidRequest, "", err)
	}
	if req.Currency == "" {
		req.Currency = p.currency
	}

	if req.Idempotency != "" {
		if !p.acquire(req.Idempotency) {
			return nil, NewPaymentError(KindInFlight, "A payment is already being processed.", nil)
		}
		defer p.release(req.Idempotency)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := p.gateway.Charge(ctx, req)
	if err != nil {
		perr := classify(ctx, err)
		p.logger.Warn("Payment attempt failed",
			zap.String("kind", string(perr.Kind)),
			zap.String("method", string(req.Method)),
			zap.Float64("amount", req.Amount),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, perr
	}
	if res == nil || res.PaymentID == "" {
		return nil, NewPaymentError(KindNetwork, "", errors.New("gateway returned no payment id"))
	}
	if res.Amount == 0 {
		res.Amount = req.Amount
	}
	if res.Method == "" {
		res.Method = req.Method
	}

	p.logger.Info("Payment succeeded",
		zap.String("paymentID", res.PaymentID),
		zap.String("method", string(req.Method)),
		zap.Float64("amount", req.Amount),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (p *Processor) acquire(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inFlight[key]; busy {
		return false
	}
	p.inFlight[key] = struct{}{}
	return true
}

func (p *Processor) release(key string) {
	p.mu.Lock()
	delete(p.inFlight, key)
	p.mu.Unlock()
}

// classify maps any gateway error to a PaymentError. A deadline on ctx wins
// over whatever the gateway reported.
func classify(ctx context.Context, err error) *PaymentError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return NewPaymentError(KindTimeout, "Payment timed out. Please try again.", err)
	}
	if pe, ok := AsPaymentError(err); ok {
		return pe
	}
	return NewPaymentError(KindNetwork, "", err)
}

func validateRequest(req models.PaymentRequest) error {
	if req.Amount <= 0 {
		return fmt.Errorf("invalid payment amount %.2f", req.Amount)
	}
	if !req.Method.Valid() {
		return fmt.Errorf("unsupported payment method %q", req.Method)
	}
	return nil
}
