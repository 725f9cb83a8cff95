package order

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domcart "github.com/Zhima-Mochi/bookstore-saga/internal/domain/cart"
	domcatalog "github.com/Zhima-Mochi/bookstore-saga/internal/domain/catalog"
	domoutbox "github.com/Zhima-Mochi/bookstore-saga/internal/domain/outbox"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
)

type fakeCart struct {
	repo     *memory.CartRepository
	getErr   error
	clearErr error
}

func (f *fakeCart) GetCart(ctx context.Context, userID string) (*domcart.Cart, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, err := f.repo.Get(ctx, userID)
	if errors.Is(err, domcart.ErrNotFound) {
		return domcart.New(userID), nil
	}
	return c, err
}

func (f *fakeCart) ClearCart(ctx context.Context, userID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	c, err := f.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	c.Clear()
	return f.repo.Save(ctx, c)
}

type fakeCatalog struct {
	repo   *memory.CatalogRepository
	setErr map[int64]error
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id int64) (*domcatalog.Product, error) {
	p, err := f.repo.Get(ctx, id)
	if errors.Is(err, domcatalog.ErrNotFound) {
		return nil, fmt.Errorf("%w: product %d", application.ErrRemoteNotFound, id)
	}
	return p, err
}

func (f *fakeCatalog) SetStock(ctx context.Context, id int64, stock int) (*domcatalog.Product, error) {
	if err := f.setErr[id]; err != nil {
		return nil, err
	}
	p, err := f.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.SetStock(stock); err != nil {
		return nil, err
	}
	return p, f.repo.Save(ctx, p)
}

func (f *fakeCatalog) stock(id int64) int {
	p, err := f.repo.Get(context.Background(), id)
	if err != nil {
		return -1
	}
	return p.Stock
}

type sequenceIDs struct {
	mu sync.Mutex
	n  int
}

func (s *sequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("ORD-1700000000000-%09d", s.n)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domoutbox.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e domoutbox.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type captureSubscriber struct {
	handlers map[string]domoutbox.Handler
}

func (s *captureSubscriber) Subscribe(name string, h domoutbox.Handler) {
	if s.handlers == nil {
		s.handlers = map[string]domoutbox.Handler{}
	}
	s.handlers[name] = h
}

// countingObservability records counter increments by metric and label values.
type countingObservability struct {
	mu     sync.Mutex
	counts map[string]float64
}

func newCountingObservability() *countingObservability {
	return &countingObservability{counts: map[string]float64{}}
}

func (o *countingObservability) Tracer() observability.Tracer   { return observability.NopTracer() }
func (o *countingObservability) Logger() observability.Logger   { return observability.NopLogger() }
func (o *countingObservability) Metrics() observability.Metrics { return o }

func (o *countingObservability) Counter(name observability.MetricKey) observability.Counter {
	return countingCounter{o: o, name: string(name)}
}

func (o *countingObservability) Histogram(observability.MetricKey) observability.Histogram {
	return observability.NopHistogram()
}

func (o *countingObservability) get(key string) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[key]
}

type countingCounter struct {
	o    *countingObservability
	name string
}

func (c countingCounter) Add(delta float64, labels ...observability.Label) {
	key := c.name
	for _, l := range labels {
		key += "," + l.Key + "=" + l.Value
	}
	c.o.mu.Lock()
	defer c.o.mu.Unlock()
	c.o.counts[key] += delta
}

func (c countingCounter) Bind(labels ...observability.Label) observability.BoundCounter {
	return boundCounting{c: c, labels: labels}
}

type boundCounting struct {
	c      countingCounter
	labels []observability.Label
}

func (b boundCounting) Add(delta float64) { b.c.Add(delta, b.labels...) }
