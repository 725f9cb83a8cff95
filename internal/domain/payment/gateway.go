package payment

import "context"

// ChargeResult is the outcome reported by a payment gateway.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	Message       string
}

// Gateway authorizes a charge. A declined charge is not an error.
type Gateway interface {
	Charge(ctx context.Context, p *Payment) (ChargeResult, error)
}
