package payment

import (
	"context"
	"testing"

	dompay "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Queries(t *testing.T) {
	repo := memory.NewPaymentRepository()
	svc := NewService(repo)
	ctx := context.Background()

	first := insertPayment(t, repo, dompay.StatusFailed)
	second := insertPayment(t, repo, dompay.StatusCompleted)

	byNum, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, first.PaymentID, byNum.PaymentID)

	byRef, err := svc.Get(ctx, second.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, byRef.ID)

	latest, err := svc.LatestForOrder(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, second.PaymentID, latest.PaymentID)

	latest, err = svc.LatestForOrder(ctx, "ORD-1-A")
	require.NoError(t, err)
	assert.Equal(t, second.PaymentID, latest.PaymentID)

	_, err = svc.LatestForOrder(ctx, "ORD-none")
	assert.ErrorIs(t, err, dompay.ErrNotFound)

	mine, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	st, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Completed)
	assert.Equal(t, 1, st.Failed)
	assert.InDelta(t, 20.00, st.TotalRevenue, 0.0001)
	assert.InDelta(t, 20.00, st.NetRevenue, 0.0001)
}
