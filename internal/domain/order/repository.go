package order

import "context"

type Repository interface {
	// Insert assigns the next numeric ID to o and stores it.
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id int64) (*Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*Order, error)
	Update(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
}
