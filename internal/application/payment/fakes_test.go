package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	ordersvc "github.com/Zhima-Mochi/bookstore-saga/internal/application/order"
	domorder "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/bookstore-saga/internal/domain/outbox"
	dompay "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
)

// orderStub serves the OrderPort from an in-process order service and can inject failures.
type orderStub struct {
	svc  *ordersvc.Service
	repo *memory.OrderRepository

	mu         sync.Mutex
	getErr     error
	applyErr   error
	cancelErrs []error
	cancels    int
	seeded     int
}

func newOrderStub() *orderStub {
	repo := memory.NewOrderRepository()
	return &orderStub{svc: ordersvc.NewService(repo, nil), repo: repo}
}

func (s *orderStub) seed(total float64) *domorder.Order {
	s.seeded++
	o, err := domorder.New(fmt.Sprintf("ORD-1700000000000-%09d", s.seeded), "u1",
		[]domorder.Item{{ProductID: 7, Price: total, Quantity: 1, Subtotal: total}},
		domorder.Address{Street: "s", City: "c", State: "st", ZipCode: "z", Country: "US"})
	if err != nil {
		panic(err)
	}
	if err := s.repo.Insert(context.Background(), o); err != nil {
		panic(err)
	}
	return o
}

func (s *orderStub) GetOrder(ctx context.Context, ref string) (*domorder.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	o, err := s.svc.Get(ctx, ref)
	if errors.Is(err, domorder.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s", application.ErrRemoteNotFound, ref)
	}
	return o, err
}

func (s *orderStub) ApplyPayment(ctx context.Context, ref string, status domorder.PaymentStatus, method string) (*domorder.Order, error) {
	if s.applyErr != nil {
		return nil, s.applyErr
	}
	return s.svc.ApplyPayment(ctx, ref, string(status), method)
}

func (s *orderStub) CancelOrder(ctx context.Context, ref string) (*domorder.Order, error) {
	s.mu.Lock()
	s.cancels++
	var injected error
	if len(s.cancelErrs) > 0 {
		injected, s.cancelErrs = s.cancelErrs[0], s.cancelErrs[1:]
	}
	s.mu.Unlock()
	if injected != nil {
		return nil, injected
	}
	o, err := s.svc.Cancel(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", application.ErrRemoteRejected, err)
	}
	return o, nil
}

func (s *orderStub) order(id int64) *domorder.Order {
	o, err := s.repo.Get(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return o
}

type fixedGateway struct {
	approve bool
	calls   int
}

func (g *fixedGateway) Charge(context.Context, *dompay.Payment) (dompay.ChargeResult, error) {
	g.calls++
	if !g.approve {
		return dompay.ChargeResult{Message: "Payment failed - insufficient funds or invalid details"}, nil
	}
	return dompay.ChargeResult{Approved: true, TransactionID: fmt.Sprintf("TXN-1700000000000-%09d", g.calls)}, nil
}

type counterIDs struct {
	prefix string
	n      int
}

func (c *counterIDs) NewID() string {
	c.n++
	return fmt.Sprintf("%s-1700000000000-%09d", c.prefix, c.n)
}

type recordingPublisher struct {
	events []domoutbox.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e domoutbox.Event) error {
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
