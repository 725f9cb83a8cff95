package payment

import "context"

type Repository interface {
	// Insert assigns the next numeric ID to p and stores it.
	Insert(ctx context.Context, p *Payment) error
	Get(ctx context.Context, id int64) (*Payment, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	// LatestByOrder returns the most recent attempt for the order.
	LatestByOrder(ctx context.Context, orderID int64) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	List(ctx context.Context) ([]*Payment, error)
	ListByUser(ctx context.Context, userID string) ([]*Payment, error)
}
