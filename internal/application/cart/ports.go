package cart

import (
	"context"

	domcatalog "github.com/Zhima-Mochi/bookstore-saga/internal/domain/catalog"
)

// CatalogPort reads products from the catalog service.
type CatalogPort interface {
	GetProduct(ctx context.Context, id int64) (*domcatalog.Product, error)
}
