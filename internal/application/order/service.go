package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability/logctx"
)

// Service serves order queries and the single-order state changes.
type Service struct {
	repo domain.Repository
	log  observability.Logger
}

func NewService(repo domain.Repository, tel observability.Observability) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		repo: repo,
		log:  tel.Logger().With(observability.F("service", orderService)),
	}
}

// Get resolves ref as a numeric id first and as an ORD- order id otherwise.
func (s *Service) Get(ctx context.Context, ref string) (*domain.Order, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, application.NewValidation("orderId is required")
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.repo.Get(ctx, id)
	}
	return s.repo.GetByOrderID(ctx, ref)
}

func (s *Service) List(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if userID == "" {
		return nil, application.NewValidation("userId is required")
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Statistics(ctx context.Context) (domain.Statistics, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}
	return domain.Summarize(orders), nil
}

// UpdateStatus rejects unknown status strings before touching the store.
func (s *Service) UpdateStatus(ctx context.Context, ref, status string) (*domain.Order, error) {
	next := domain.Status(status)
	if !next.Valid() {
		return nil, application.NewValidation("invalid status. Valid statuses: " + joinStatuses())
	}
	return s.mutate(ctx, ref, "order_status_updated", func(o *domain.Order) error {
		return o.UpdateStatus(next)
	})
}

func (s *Service) Cancel(ctx context.Context, ref string) (*domain.Order, error) {
	return s.mutate(ctx, ref, "order_cancelled", func(o *domain.Order) error {
		return o.Cancel()
	})
}

// ApplyPayment records a payment outcome reported by the payment service.
func (s *Service) ApplyPayment(ctx context.Context, ref, paymentStatus, method string) (*domain.Order, error) {
	ps := domain.PaymentStatus(paymentStatus)
	if !ps.Valid() {
		return nil, application.NewValidation("invalid paymentStatus")
	}
	return s.mutate(ctx, ref, "order_payment_applied", func(o *domain.Order) error {
		return o.ApplyPayment(ps, method)
	})
}

func (s *Service) mutate(ctx context.Context, ref, event string, fn func(*domain.Order) error) (*domain.Order, error) {
	o, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	logctx.FromOr(ctx, s.log).Info(event,
		observability.F("order_id", o.OrderID),
		observability.F("status", string(o.Status)),
		observability.F("payment_status", string(o.PaymentStatus)),
	)
	return o, nil
}

func joinStatuses() string {
	names := make([]string, 0, len(domain.Statuses))
	for _, st := range domain.Statuses {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}
