package order

import (
	"context"
	"strconv"
	"testing"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, repo domain.Repository, orderID, userID string) *domain.Order {
	t.Helper()
	o, err := domain.New(orderID, userID, []domain.Item{{ProductID: 7, Price: 10, Quantity: 2, Subtotal: 20}}, *address())
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), o))
	return o
}

func TestService_GetByEitherID(t *testing.T) {
	repo := memory.NewOrderRepository()
	svc := NewService(repo, nil)
	o := seedOrder(t, repo, "ORD-1-AAAAAAAAA", "u1")
	ctx := context.Background()

	byNum, err := svc.Get(ctx, strconv.FormatInt(o.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, o.OrderID, byNum.OrderID)

	byRef, err := svc.Get(ctx, o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, byRef.ID)

	_, err = svc.Get(ctx, "ORD-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Get(ctx, "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_UpdateStatus(t *testing.T) {
	repo := memory.NewOrderRepository()
	svc := NewService(repo, nil)
	o := seedOrder(t, repo, "ORD-1-AAAAAAAAA", "u1")
	ctx := context.Background()
	ref := o.OrderID

	_, err := svc.UpdateStatus(ctx, ref, "teleported")
	assert.ErrorIs(t, err, application.ErrValidation)

	got, err := svc.UpdateStatus(ctx, ref, "shipped")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, got.Status)
	assert.NotNil(t, got.ShippedAt)

	_, err = svc.Cancel(ctx, ref)
	assert.ErrorIs(t, err, domain.ErrCancelNotAllowed)

	stored, err := svc.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, stored.Status)
	assert.Nil(t, stored.CancelledAt)
}

func TestService_Cancel(t *testing.T) {
	repo := memory.NewOrderRepository()
	svc := NewService(repo, nil)
	o := seedOrder(t, repo, "ORD-1-AAAAAAAAA", "u1")

	got, err := svc.Cancel(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, o.OrderID, got.OrderID)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)

	_, err = svc.UpdateStatus(context.Background(), "1", "confirmed")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestService_ApplyPayment(t *testing.T) {
	repo := memory.NewOrderRepository()
	svc := NewService(repo, nil)
	seedOrder(t, repo, "ORD-1-AAAAAAAAA", "u1")
	ctx := context.Background()

	got, err := svc.ApplyPayment(ctx, "1", "completed", "upi")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, domain.PaymentCompleted, got.PaymentStatus)
	assert.Equal(t, "upi", got.PaymentMethod)
	assert.NotNil(t, got.PaidAt)

	_, err = svc.ApplyPayment(ctx, "1", "settled", "")
	assert.ErrorIs(t, err, application.ErrValidation)
}

func TestService_ListsAndStatistics(t *testing.T) {
	repo := memory.NewOrderRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()
	seedOrder(t, repo, "ORD-1-A", "u1")
	seedOrder(t, repo, "ORD-2-B", "u2")
	seedOrder(t, repo, "ORD-3-C", "u1")

	_, err := svc.ApplyPayment(ctx, "1", "completed", "paypal")
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, "2")
	require.NoError(t, err)

	mine, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "ORD-3-C", mine[0].OrderID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	st, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, st.Total, st.Pending+st.Confirmed+st.Processing+st.Shipped+st.Delivered+st.Cancelled)
	assert.Equal(t, 1, st.Confirmed)
	assert.Equal(t, 1, st.Cancelled)
	assert.InDelta(t, 20.00, st.TotalRevenue, 0.0001)
}
