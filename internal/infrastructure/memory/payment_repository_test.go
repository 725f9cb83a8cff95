package memory

import (
	"context"
	"testing"

	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository(t *testing.T) {
	ctx := context.Background()
	r := NewPaymentRepository()

	first := domain.New("PAY-1", 10, "ORD-10", "u1", 20, domain.MethodUPI, domain.Details{UPIID: "a@upi"})
	second := domain.New("PAY-2", 10, "ORD-10", "u1", 20, domain.MethodUPI, domain.Details{UPIID: "a@upi"})
	other := domain.New("PAY-3", 11, "ORD-11", "u2", 5, domain.MethodPayPal, domain.Details{Email: "b@x.io"})
	for _, p := range []*domain.Payment{first, second, other} {
		require.NoError(t, r.Insert(ctx, p))
	}
	assert.Equal(t, int64(3), other.ID)
	assert.Error(t, r.Insert(ctx, domain.New("PAY-1", 1, "", "u", 1, domain.MethodUPI, domain.Details{})))

	latest, err := r.LatestByOrder(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "PAY-2", latest.PaymentID)
	_, err = r.LatestByOrder(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	byID, err := r.GetByPaymentID(ctx, "PAY-3")
	require.NoError(t, err)
	assert.Equal(t, "u2", byID.UserID)

	require.NoError(t, first.Complete("TXN-1"))
	require.NoError(t, r.Update(ctx, first))
	got, err := r.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	mine, err := r.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "PAY-2", mine[0].PaymentID)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
