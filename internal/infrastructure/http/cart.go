package httptransport

import (
	"context"
	"net/http"
	"net/url"

	domcart "github.com/Zhima-Mochi/bookstore-saga/internal/domain/cart"
)

type CartClient struct {
	c *Client
}

func NewCartClient(c *Client) *CartClient {
	return &CartClient{c: c}
}

func (cc *CartClient) GetCart(ctx context.Context, userID string) (*domcart.Cart, error) {
	var out domcart.Cart
	if err := cc.c.do(ctx, http.MethodGet, "GET /api/cart/{userId}", "/api/cart/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CartClient) ClearCart(ctx context.Context, userID string) error {
	return cc.c.do(ctx, http.MethodDelete, "DELETE /api/cart/clear/{userId}", "/api/cart/clear/"+url.PathEscape(userID), nil, nil)
}
