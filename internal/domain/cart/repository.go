package cart

import "context"

// Repository stores one cart per user. Get returns ErrNotFound for unknown users.
type Repository interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
}
