// Package gateway simulates a card processor that approves a fixed share of charges.
package gateway

import (
	"context"
	"math/rand"
	"sync"
	"time"

	dompay "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
)

const (
	DefaultSuccessRate = 0.95
	declinedMessage    = "Payment failed - insufficient funds or invalid details"
	approvedMessage    = "Payment processed successfully"
)

type IDGenerator interface {
	NewID() string
}

// Simulator approves a charge with probability successRate, independent of amount or method.
type Simulator struct {
	mu          sync.Mutex
	random      *rand.Rand
	successRate float64
	latency     time.Duration
	txnIDs      IDGenerator
}

type Option func(*Simulator)

// WithLatency delays every charge to mimic a remote processor.
func WithLatency(d time.Duration) Option {
	return func(s *Simulator) { s.latency = d }
}

// WithSeed makes the outcome sequence reproducible.
func WithSeed(seed int64) Option {
	return func(s *Simulator) { s.random = rand.New(rand.NewSource(seed)) }
}

func NewSimulator(successRate float64, txnIDs IDGenerator, opts ...Option) *Simulator {
	s := &Simulator{
		random: rand.New(rand.NewSource(time.Now().UnixNano())),
		txnIDs: txnIDs,
	}
	s.SetSuccessRate(successRate)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Charge(ctx context.Context, _ *dompay.Payment) (dompay.ChargeResult, error) {
	if s.latency > 0 {
		t := time.NewTimer(s.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return dompay.ChargeResult{}, ctx.Err()
		case <-t.C:
		}
	}
	// respect cancellation even though this is mocked
	if err := ctx.Err(); err != nil {
		return dompay.ChargeResult{}, err
	}

	s.mu.Lock()
	approved := s.random.Float64() < s.successRate
	s.mu.Unlock()

	if !approved {
		return dompay.ChargeResult{Approved: false, Message: declinedMessage}, nil
	}
	return dompay.ChargeResult{
		Approved:      true,
		TransactionID: s.txnIDs.NewID(),
		Message:       approvedMessage,
	}, nil
}

// SetSuccessRate adjusts the approval probability, clamped to [0, 1].
func (s *Simulator) SetSuccessRate(rate float64) {
	s.mu.Lock()
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	s.successRate = rate
	s.mu.Unlock()
}
