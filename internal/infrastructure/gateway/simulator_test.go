package gateway

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_ConvergesToSuccessRate(t *testing.T) {
	s := NewSimulator(DefaultSuccessRate, id.NewGenerator("TXN"), WithSeed(7))
	const trials = 20000

	approved := 0
	for i := 0; i < trials; i++ {
		res, err := s.Charge(context.Background(), nil)
		require.NoError(t, err)
		if res.Approved {
			approved++
			assert.True(t, strings.HasPrefix(res.TransactionID, "TXN-"))
		} else {
			assert.Empty(t, res.TransactionID)
			assert.Equal(t, "Payment failed - insufficient funds or invalid details", res.Message)
		}
	}
	assert.InDelta(t, 0.95, float64(approved)/trials, 0.01)
}

func TestSimulator_ExtremeRates(t *testing.T) {
	s := NewSimulator(2, id.NewGenerator("TXN"))
	res, err := s.Charge(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, res.Approved)

	s.SetSuccessRate(-1)
	res, err = s.Charge(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, res.Approved)
}

func TestSimulator_HonoursCancellation(t *testing.T) {
	s := NewSimulator(1, id.NewGenerator("TXN"), WithLatency(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Charge(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
