package order

import (
	"errors"
	"time"

	"github.com/Zhima-Mochi/bookstore-saga/internal/pkg/money"
)

var (
	ErrNotFound          = errors.New("order: not found")
	ErrEmptyCart         = errors.New("order: cart is empty")
	ErrInvalidStatus     = errors.New("order: unknown status")
	ErrInvalidTransition = errors.New("order: invalid status transition")
	ErrCancelNotAllowed  = errors.New("order: cannot cancel an order that has been shipped or delivered")
)

// EstimatedDeliveryWindow is added to the creation time to estimate delivery.
const EstimatedDeliveryWindow = 7 * 24 * time.Hour

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every order status in lifecycle order.
var Statuses = []Status{
	StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled,
}

func (s Status) Valid() bool {
	_, ok := lifecycleRank[s]
	return ok || s == StatusCancelled
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// Item is the line snapshot copied from the cart at checkout.
type Item struct {
	ProductID int64   `json:"productId"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

type Order struct {
	ID                int64         `json:"id"`
	OrderID           string        `json:"orderId"`
	UserID            string        `json:"userId"`
	Items             []Item        `json:"items"`
	TotalAmount       float64       `json:"totalAmount"`
	TotalItems        int           `json:"totalItems"`
	ShippingAddress   Address       `json:"shippingAddress"`
	Status            Status        `json:"status"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	PaymentMethod     string        `json:"paymentMethod,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	EstimatedDelivery time.Time     `json:"estimatedDelivery"`
	ShippedAt         *time.Time    `json:"shippedAt,omitempty"`
	DeliveredAt       *time.Time    `json:"deliveredAt,omitempty"`
	CancelledAt       *time.Time    `json:"cancelledAt,omitempty"`
	PaidAt            *time.Time    `json:"paidAt,omitempty"`
}

// New builds a pending order. The numeric ID is assigned by the repository on insert.
func New(orderID, userID string, items []Item, address Address) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	subtotals := make([]float64, 0, len(items))
	count := 0
	for _, it := range items {
		subtotals = append(subtotals, it.Subtotal)
		count += it.Quantity
	}

	now := time.Now().UTC()
	return &Order{
		OrderID:           orderID,
		UserID:            userID,
		Items:             append([]Item(nil), items...),
		TotalAmount:       money.Sum(subtotals...),
		TotalItems:        count,
		ShippingAddress:   address,
		Status:            StatusPending,
		PaymentStatus:     PaymentPending,
		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: now.Add(EstimatedDeliveryWindow),
	}, nil
}

// UpdateStatus moves the order to next and stamps shippedAt, deliveredAt or cancelledAt.
func (o *Order) UpdateStatus(next Status) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if err := checkTransition(o.Status, next); err != nil {
		return err
	}
	if o.Status == next {
		return nil
	}

	now := time.Now().UTC()
	switch next {
	case StatusShipped:
		o.ShippedAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}
	o.Status = next
	o.UpdatedAt = now
	return nil
}

func (o *Order) Cancel() error {
	return o.UpdateStatus(StatusCancelled)
}

// ApplyPayment records the payment outcome. A completed payment confirms a pending order
// and is refused for a cancelled one.
func (o *Order) ApplyPayment(status PaymentStatus, method string) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if status == PaymentCompleted {
		if o.Status == StatusCancelled {
			return ErrInvalidTransition
		}
		if o.Status == StatusPending {
			o.Status = StatusConfirmed
		}
		now := time.Now().UTC()
		o.PaidAt = &now
	}
	o.PaymentStatus = status
	if method != "" {
		o.PaymentMethod = method
	}
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	clone.ShippedAt = cloneTime(o.ShippedAt)
	clone.DeliveredAt = cloneTime(o.DeliveredAt)
	clone.CancelledAt = cloneTime(o.CancelledAt)
	clone.PaidAt = cloneTime(o.PaidAt)
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
