package payment

import (
	"context"

	"beautybook/models"
)

// Gateway performs a single charge against a payment provider. Implementations
// must honor ctx cancellation and return a *PaymentError for failures the
// customer can act on.
type Gateway interface {
	Charge(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error)

func (f GatewayFunc) Charge(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	return f(ctx, req)
}
