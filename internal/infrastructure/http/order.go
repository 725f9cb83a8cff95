package httptransport

import (
	"context"
	"net/http"
	"net/url"

	domorder "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
)

// OrderClient talks to the order service. ref may be the numeric id or the ORD- order id.
type OrderClient struct {
	c *Client
}

func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{c: c}
}

func (oc *OrderClient) GetOrder(ctx context.Context, ref string) (*domorder.Order, error) {
	var o domorder.Order
	if err := oc.c.do(ctx, http.MethodGet, "GET /api/orders/{orderId}", "/api/orders/"+url.PathEscape(ref), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

type paymentUpdate struct {
	PaymentStatus domorder.PaymentStatus `json:"paymentStatus"`
	PaymentMethod string                 `json:"paymentMethod,omitempty"`
}

func (oc *OrderClient) ApplyPayment(ctx context.Context, ref string, status domorder.PaymentStatus, method string) (*domorder.Order, error) {
	var o domorder.Order
	body := paymentUpdate{PaymentStatus: status, PaymentMethod: method}
	if err := oc.c.do(ctx, http.MethodPut, "PUT /api/orders/{orderId}/payment", "/api/orders/"+url.PathEscape(ref)+"/payment", body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (oc *OrderClient) CancelOrder(ctx context.Context, ref string) (*domorder.Order, error) {
	var o domorder.Order
	if err := oc.c.do(ctx, http.MethodPut, "PUT /api/orders/{orderId}/cancel", "/api/orders/"+url.PathEscape(ref)+"/cancel", nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
