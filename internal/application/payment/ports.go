package payment

import (
	"context"

	domorder "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
)

type IDGenerator interface {
	NewID() string
}

// OrderPort reaches the order service. ref is a numeric order id or an ORD- order id.
type OrderPort interface {
	GetOrder(ctx context.Context, ref string) (*domorder.Order, error)
	ApplyPayment(ctx context.Context, ref string, status domorder.PaymentStatus, method string) (*domorder.Order, error)
	CancelOrder(ctx context.Context, ref string) (*domorder.Order, error)
}
