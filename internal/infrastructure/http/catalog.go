package httptransport

import (
	"context"
	"net/http"
	"strconv"

	domcatalog "github.com/Zhima-Mochi/bookstore-saga/internal/domain/catalog"
)

// CatalogClient talks to the catalog service.
type CatalogClient struct {
	c *Client
}

func NewCatalogClient(c *Client) *CatalogClient {
	return &CatalogClient{c: c}
}

func (cc *CatalogClient) GetProduct(ctx context.Context, id int64) (*domcatalog.Product, error) {
	var p domcatalog.Product
	path := "/api/products/" + strconv.FormatInt(id, 10)
	if err := cc.c.do(ctx, http.MethodGet, "GET /api/products/{id}", path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetStock overwrites the product's stock with an absolute value.
func (cc *CatalogClient) SetStock(ctx context.Context, id int64, stock int) (*domcatalog.Product, error) {
	var p domcatalog.Product
	path := "/api/products/" + strconv.FormatInt(id, 10) + "/stock"
	body := map[string]int{"stock": stock}
	if err := cc.c.do(ctx, http.MethodPatch, "PATCH /api/products/{id}/stock", path, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
