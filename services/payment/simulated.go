package payment

import (
	"context"
	"math/rand"
	"time"

	"beautybook/models"

	"github.com/google/uuid"
)

// SimulatedGateway stands in for a real provider: it waits Delay, then
// succeeds with probability SuccessRate.
type SimulatedGateway struct {
	Delay       time.Duration
	SuccessRate float64
	random      func() float64
}

func NewSimulatedGateway(delay time.Duration, successRate float64) *SimulatedGateway {
	return &SimulatedGateway{
		Delay:       delay,
		SuccessRate: successRate,
		random:      rand.Float64,
	}
}

// WithRandomSource replaces the draw used to decide success, for tests.
func (g *SimulatedGateway) WithRandomSource(fn func() float64) *SimulatedGateway {
	g.random = fn
	return g
}

func (g *SimulatedGateway) Charge(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	draw := rand.Float64
	if g.random != nil {
		draw = g.random
	}
	if draw() >= g.SuccessRate {
		return nil, NewPaymentError(KindDeclined, "", nil)
	}
	return &models.PaymentResult{
		PaymentID: "pay_" + uuid.New().String(),
		Amount:    req.Amount,
		Method:    req.Method,
	}, nil
}
