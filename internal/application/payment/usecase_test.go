package payment

import (
	"context"
	"testing"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domorder "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
	dompay "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card() dompay.Credentials {
	return dompay.Credentials{Card: &dompay.CardDetails{CardNumber: "4111 1111 1111 1234", CardHolder: "A B", ExpiryDate: "12/30", CVV: "123"}}
}

func newProcess(repo dompay.Repository, orders OrderPort, gw dompay.Gateway) *ProcessPaymentUseCase {
	return NewProcessPaymentUseCase(repo, orders, gw, &counterIDs{prefix: "PAY"}, nil)
}

func TestProcessPayment_SuccessConfirmsOrder(t *testing.T) {
	orders := newOrderStub()
	o := orders.seed(20.00)
	repo := memory.NewPaymentRepository()
	uc := newProcess(repo, orders, &fixedGateway{approve: true})

	res, err := uc.Execute(context.Background(), ProcessPaymentInput{
		OrderRef: o.OrderID, UserID: "u1", Amount: 20.00, PaymentMethod: "credit_card", Credentials: card(),
	})
	require.NoError(t, err)
	assert.True(t, res.OrderSynced)

	p := res.Payment
	assert.Equal(t, dompay.StatusCompleted, p.Status)
	assert.Regexp(t, `^TXN-\d+-[0-9A-Z]{9}$`, p.TransactionID)
	assert.Equal(t, o.ID, p.OrderID)
	assert.Equal(t, o.OrderID, p.OrderNumber)
	assert.Equal(t, "1234", p.PaymentDetails.Last4)
	assert.Equal(t, "Visa", p.PaymentDetails.CardType)
	assert.NotNil(t, p.CompletedAt)

	after := orders.order(o.ID)
	assert.Equal(t, domorder.StatusConfirmed, after.Status)
	assert.Equal(t, domorder.PaymentCompleted, after.PaymentStatus)
	assert.Equal(t, "credit_card", after.PaymentMethod)
}

func TestProcessPayment_DeclineLeavesOrderUntouched(t *testing.T) {
	orders := newOrderStub()
	o := orders.seed(20.00)
	repo := memory.NewPaymentRepository()
	uc := newProcess(repo, orders, &fixedGateway{approve: false})

	res, err := uc.Execute(context.Background(), ProcessPaymentInput{
		OrderRef: "1", UserID: "u1", Amount: 20.00, PaymentMethod: "upi", Credentials: dompay.Credentials{UPIID: "u1@bank"},
	})
	require.ErrorIs(t, err, dompay.ErrDeclined)
	require.NotNil(t, res)
	assert.Equal(t, dompay.StatusFailed, res.Payment.Status)
	assert.Equal(t, "Payment failed - insufficient funds or invalid details", res.Payment.FailureReason)
	assert.Empty(t, res.Payment.TransactionID)

	stored, err := repo.GetByPaymentID(context.Background(), res.Payment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, dompay.StatusFailed, stored.Status)

	after := orders.order(o.ID)
	assert.Equal(t, domorder.StatusPending, after.Status)
	assert.Equal(t, domorder.PaymentPending, after.PaymentStatus)
}

func TestProcessPayment_AmountMismatchWritesNothing(t *testing.T) {
	orders := newOrderStub()
	orders.seed(20.00)
	repo := memory.NewPaymentRepository()
	gw := &fixedGateway{approve: true}
	uc := newProcess(repo, orders, gw)

	_, err := uc.Execute(context.Background(), ProcessPaymentInput{
		OrderRef: "1", UserID: "u1", Amount: 20.02, PaymentMethod: "paypal", Credentials: dompay.Credentials{PayPalEmail: "a@b.c"},
	})
	assert.ErrorIs(t, err, dompay.ErrAmountMismatch)
	assert.Contains(t, err.Error(), "Expected: 20.00")

	all, _ := repo.List(context.Background())
	assert.Empty(t, all)
	assert.Zero(t, gw.calls)

	_, err = uc.Execute(context.Background(), ProcessPaymentInput{
		OrderRef: "1", UserID: "u1", Amount: 20.005, PaymentMethod: "paypal", Credentials: dompay.Credentials{PayPalEmail: "a@b.c"},
	})
	assert.NoError(t, err)
}

func TestProcessPayment_Validation(t *testing.T) {
	orders := newOrderStub()
	orders.seed(20.00)
	uc := newProcess(memory.NewPaymentRepository(), orders, &fixedGateway{approve: true})
	ctx := context.Background()

	cases := map[string]ProcessPaymentInput{
		"missing user":   {OrderRef: "1", Amount: 20, PaymentMethod: "upi", Credentials: dompay.Credentials{UPIID: "x"}},
		"zero amount":    {OrderRef: "1", UserID: "u1", PaymentMethod: "upi", Credentials: dompay.Credentials{UPIID: "x"}},
		"bad method":     {OrderRef: "1", UserID: "u1", Amount: 20, PaymentMethod: "cash"},
		"missing card":   {OrderRef: "1", UserID: "u1", Amount: 20, PaymentMethod: "debit_card"},
		"missing upi":    {OrderRef: "1", UserID: "u1", Amount: 20, PaymentMethod: "upi"},
		"missing paypal": {OrderRef: "1", UserID: "u1", Amount: 20, PaymentMethod: "paypal"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(ctx, in)
			assert.ErrorIs(t, err, application.ErrValidation)
		})
	}
}

func TestProcessPayment_OrderLookupFailures(t *testing.T) {
	orders := newOrderStub()
	uc := newProcess(memory.NewPaymentRepository(), orders, &fixedGateway{approve: true})
	in := ProcessPaymentInput{OrderRef: "42", UserID: "u1", Amount: 20, PaymentMethod: "upi", Credentials: dompay.Credentials{UPIID: "x"}}

	_, err := uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, domorder.ErrNotFound)

	orders.getErr = application.ErrDownstream
	_, err = uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, application.ErrDownstream)
}

func TestProcessPayment_OrderSyncFailureKeepsPayment(t *testing.T) {
	orders := newOrderStub()
	o := orders.seed(20.00)
	orders.applyErr = application.ErrDownstream
	uc := newProcess(memory.NewPaymentRepository(), orders, &fixedGateway{approve: true})

	res, err := uc.Execute(context.Background(), ProcessPaymentInput{
		OrderRef: "1", UserID: "u1", Amount: 20, PaymentMethod: "upi", Credentials: dompay.Credentials{UPIID: "x"},
	})
	require.NoError(t, err)
	assert.False(t, res.OrderSynced)
	assert.Equal(t, dompay.StatusCompleted, res.Payment.Status)
	assert.Equal(t, domorder.PaymentPending, orders.order(o.ID).PaymentStatus)
}
