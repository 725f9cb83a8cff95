package order

import (
	"context"
	"testing"

	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileWorker_CountsFailedSteps(t *testing.T) {
	sub := &captureSubscriber{}
	tel := newCountingObservability()
	w := NewReconcileWorker(sub, tel)
	w.Start()

	h, ok := sub.handlers[domain.OrderCreatedEvent{}.EventName()]
	require.True(t, ok)

	evt := domain.OrderCreatedEvent{
		ID:      1,
		OrderID: "ORD-1-A",
		Steps: []domain.StepOutcome{
			{Step: domain.StepPersist, Outcome: domain.OutcomeSucceeded},
			{Step: domain.StepStockDecrement, ProductID: 7, Quantity: 2, Outcome: domain.OutcomeFailed, Error: "insufficient stock"},
			{Step: domain.StepStockDecrement, ProductID: 8, Quantity: 1, Outcome: domain.OutcomeFailed, Error: "timeout"},
			{Step: domain.StepCartClear, Outcome: domain.OutcomeFailed, Error: "down"},
		},
	}
	require.NoError(t, h(context.Background(), evt))

	assert.Equal(t, 2.0, tel.get("saga_step_failures_total,step=stock.decrement"))
	assert.Equal(t, 1.0, tel.get("saga_step_failures_total,step=cart.clear"))
	assert.Equal(t, 1.0, tel.get("usecase_requests_total,use_case=order.worker.reconcile,outcome=success"))
}

func TestReconcileWorker_CleanOrder(t *testing.T) {
	sub := &captureSubscriber{}
	tel := newCountingObservability()
	NewReconcileWorker(sub, tel).Start()

	h := sub.handlers[domain.OrderCreatedEvent{}.EventName()]
	require.NoError(t, h(context.Background(), domain.OrderCreatedEvent{
		Steps: []domain.StepOutcome{{Step: domain.StepPersist, Outcome: domain.OutcomeSucceeded}},
	}))
	assert.Zero(t, tel.get("saga_step_failures_total,step=stock.decrement"))
}
