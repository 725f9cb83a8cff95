package payment

import (
	"context"
	"testing"

	dompay "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertPayment(t *testing.T, repo dompay.Repository, status dompay.Status) *dompay.Payment {
	t.Helper()
	p := dompay.New("PAY-1-"+string(status), 1, "ORD-1-A", "u1", 20, dompay.MethodUPI, dompay.Details{UPIID: "x"})
	switch status {
	case dompay.StatusCompleted:
		require.NoError(t, p.Complete("TXN-1-A"))
	case dompay.StatusFailed:
		require.NoError(t, p.Fail("declined"))
	}
	require.NoError(t, repo.Insert(context.Background(), p))
	return p
}

func TestProcessRefund_CompletedOnce(t *testing.T) {
	repo := memory.NewPaymentRepository()
	pub := &recordingPublisher{}
	uc := NewProcessRefundUseCase(repo, pub, nil)
	p := insertPayment(t, repo, dompay.StatusCompleted)
	ctx := context.Background()

	got, err := uc.Execute(ctx, ProcessRefundInput{PaymentRef: p.PaymentID, Reason: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, dompay.StatusRefunded, got.Status)
	assert.Equal(t, "damaged", got.RefundReason)
	assert.NotNil(t, got.RefundedAt)

	require.Len(t, pub.events, 1)
	evt, ok := pub.events[0].(dompay.PaymentRefundedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1), evt.OrderID)

	_, err = uc.Execute(ctx, ProcessRefundInput{PaymentRef: p.PaymentID})
	assert.ErrorIs(t, err, dompay.ErrRefundNotAllowed)
	assert.Len(t, pub.events, 1)

	stored, err := repo.GetByPaymentID(ctx, p.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, "damaged", stored.RefundReason)
}

func TestProcessRefund_RejectsNonCompleted(t *testing.T) {
	repo := memory.NewPaymentRepository()
	uc := NewProcessRefundUseCase(repo, nil, nil)
	ctx := context.Background()

	failed := insertPayment(t, repo, dompay.StatusFailed)
	_, err := uc.Execute(ctx, ProcessRefundInput{PaymentRef: failed.PaymentID})
	assert.ErrorIs(t, err, dompay.ErrRefundNotAllowed)

	stored, _ := repo.GetByPaymentID(ctx, failed.PaymentID)
	assert.Equal(t, dompay.StatusFailed, stored.Status)
	assert.Nil(t, stored.RefundedAt)

	_, err = uc.Execute(ctx, ProcessRefundInput{PaymentRef: "PAY-unknown"})
	assert.ErrorIs(t, err, dompay.ErrNotFound)
}

func TestProcessRefund_DefaultReason(t *testing.T) {
	repo := memory.NewPaymentRepository()
	p := insertPayment(t, repo, dompay.StatusCompleted)

	got, err := NewProcessRefundUseCase(repo, nil, nil).Execute(context.Background(), ProcessRefundInput{PaymentRef: "1"})
	require.NoError(t, err)
	assert.Equal(t, p.PaymentID, got.PaymentID)
	assert.Equal(t, defaultRefundReason, got.RefundReason)
}
