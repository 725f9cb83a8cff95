package payment

import "time"

// PaymentRefundedEvent asks the order side to reflect a refund. Delivery is best effort.
type PaymentRefundedEvent struct {
	PaymentID  string
	OrderID    int64
	UserID     string
	Amount     float64
	Reason     string
	OccurredAt time.Time
}

func (PaymentRefundedEvent) EventName() string { return "payment.refunded" }

func NewPaymentRefundedEvent(p *Payment) PaymentRefundedEvent {
	return PaymentRefundedEvent{
		PaymentID:  p.PaymentID,
		OrderID:    p.OrderID,
		UserID:     p.UserID,
		Amount:     p.Amount,
		Reason:     p.RefundReason,
		OccurredAt: time.Now().UTC(),
	}
}
