package order

import (
	"context"

	domcart "github.com/Zhima-Mochi/bookstore-saga/internal/domain/cart"
	domcatalog "github.com/Zhima-Mochi/bookstore-saga/internal/domain/catalog"
)

type IDGenerator interface {
	NewID() string
}

// CartPort reaches the cart service.
type CartPort interface {
	GetCart(ctx context.Context, userID string) (*domcart.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// CatalogPort reads products and overwrites their stock.
type CatalogPort interface {
	GetProduct(ctx context.Context, id int64) (*domcatalog.Product, error)
	SetStock(ctx context.Context, id int64, stock int) (*domcatalog.Product, error)
}
