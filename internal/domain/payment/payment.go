package payment

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound           = errors.New("payment: not found")
	ErrAmountMismatch     = errors.New("payment: amount does not match order total")
	ErrRefundNotAllowed   = errors.New("payment: only completed payments can be refunded")
	ErrInvalidTransition  = errors.New("payment: invalid status transition")
	ErrUnsupportedMethod  = errors.New("payment: unsupported payment method")
	ErrDeclined           = errors.New("payment: declined by gateway")
	ErrMissingCardDetails = errors.New("payment: card details are required")
	ErrMissingUPIID       = errors.New("payment: UPI ID is required")
	ErrMissingPayPalEmail = errors.New("payment: PayPal email is required")
)

type Method string

const (
	MethodCreditCard Method = "credit_card"
	MethodDebitCard  Method = "debit_card"
	MethodPayPal     Method = "paypal"
	MethodUPI        Method = "upi"
)

var Methods = []Method{MethodCreditCard, MethodDebitCard, MethodPayPal, MethodUPI}

func (m Method) Valid() bool {
	for _, v := range Methods {
		if m == v {
			return true
		}
	}
	return false
}

func (m Method) IsCard() bool { return m == MethodCreditCard || m == MethodDebitCard }

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// CardDetails is the raw card payload. It is never stored.
type CardDetails struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	CVV        string `json:"cvv,omitempty"`
}

// Credentials carries the method specific payload of a payment request.
type Credentials struct {
	Card        *CardDetails
	UPIID       string
	PayPalEmail string
}

// Details is the redacted form kept on the payment.
type Details struct {
	Last4    string `json:"last4,omitempty"`
	CardType string `json:"cardType,omitempty"`
	UPIID    string `json:"upiId,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Redact checks that the payload required by m is present and strips it down to
// what may be stored.
func Redact(m Method, c Credentials) (Details, error) {
	switch {
	case m.IsCard():
		if c.Card == nil || strings.TrimSpace(c.Card.CardNumber) == "" {
			return Details{}, ErrMissingCardDetails
		}
		number := strings.ReplaceAll(strings.TrimSpace(c.Card.CardNumber), " ", "")
		last4 := number
		if len(number) > 4 {
			last4 = number[len(number)-4:]
		}
		return Details{Last4: last4, CardType: DetectCardType(number)}, nil
	case m == MethodUPI:
		if strings.TrimSpace(c.UPIID) == "" {
			return Details{}, ErrMissingUPIID
		}
		return Details{UPIID: c.UPIID}, nil
	case m == MethodPayPal:
		if strings.TrimSpace(c.PayPalEmail) == "" {
			return Details{}, ErrMissingPayPalEmail
		}
		return Details{Email: c.PayPalEmail}, nil
	default:
		return Details{}, ErrUnsupportedMethod
	}
}

// DetectCardType infers the card brand from the first digit.
func DetectCardType(number string) string {
	if number == "" {
		return "Unknown"
	}
	switch number[0] {
	case '4':
		return "Visa"
	case '5':
		return "Mastercard"
	case '3':
		return "American Express"
	case '6':
		return "Discover"
	default:
		return "Unknown"
	}
}

type Payment struct {
	ID             int64      `json:"id"`
	PaymentID      string     `json:"paymentId"`
	OrderID        int64      `json:"orderId"`
	OrderNumber    string     `json:"orderNumber,omitempty"`
	UserID         string     `json:"userId"`
	Amount         float64    `json:"amount"`
	PaymentMethod  Method     `json:"paymentMethod"`
	Status         Status     `json:"status"`
	TransactionID  string     `json:"transactionId,omitempty"`
	PaymentDetails Details    `json:"paymentDetails"`
	FailureReason  string     `json:"failureReason,omitempty"`
	RefundReason   string     `json:"refundReason,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	FailedAt       *time.Time `json:"failedAt,omitempty"`
	RefundedAt     *time.Time `json:"refundedAt,omitempty"`
}

// New builds a pending payment attempt. The numeric ID is assigned by the repository.
func New(paymentID string, orderID int64, orderNumber, userID string, amount float64, m Method, d Details) *Payment {
	now := time.Now().UTC()
	return &Payment{
		PaymentID:      paymentID,
		OrderID:        orderID,
		OrderNumber:    orderNumber,
		UserID:         userID,
		Amount:         amount,
		PaymentMethod:  m,
		Status:         StatusPending,
		PaymentDetails: d,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (p *Payment) Complete(transactionID string) error {
	if p.Status != StatusPending {
		return ErrInvalidTransition
	}
	now := time.Now().UTC()
	p.Status = StatusCompleted
	p.TransactionID = transactionID
	p.CompletedAt = &now
	p.UpdatedAt = now
	return nil
}

func (p *Payment) Fail(reason string) error {
	if p.Status != StatusPending {
		return ErrInvalidTransition
	}
	now := time.Now().UTC()
	p.Status = StatusFailed
	p.FailureReason = reason
	p.FailedAt = &now
	p.UpdatedAt = now
	return nil
}

// Refund moves a completed payment to refunded. Any other status is rejected unchanged.
func (p *Payment) Refund(reason string) error {
	if p.Status != StatusCompleted {
		return ErrRefundNotAllowed
	}
	now := time.Now().UTC()
	p.Status = StatusRefunded
	p.RefundReason = reason
	p.RefundedAt = &now
	p.UpdatedAt = now
	return nil
}

func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	clone := *p
	clone.CompletedAt = cloneTime(p.CompletedAt)
	clone.FailedAt = cloneTime(p.FailedAt)
	clone.RefundedAt = cloneTime(p.RefundedAt)
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
