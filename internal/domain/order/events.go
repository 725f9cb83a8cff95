package order

import "time"

// OrderCreatedEvent is emitted after an order has been persisted and its stock
// and cart steps have run. Steps lets subscribers reconcile partial failures.
type OrderCreatedEvent struct {
	ID          int64
	OrderID     string
	UserID      string
	TotalAmount float64
	Steps       []StepOutcome
	OccurredAt  time.Time
}

func (OrderCreatedEvent) EventName() string { return "order.created" }

func NewOrderCreatedEvent(o *Order, steps []StepOutcome) OrderCreatedEvent {
	return OrderCreatedEvent{
		ID:          o.ID,
		OrderID:     o.OrderID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Steps:       append([]StepOutcome(nil), steps...),
		OccurredAt:  time.Now().UTC(),
	}
}
