package payment

import (
	"context"
	"strconv"
	"strings"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
)

// Service answers payment queries.
type Service struct {
	repo domain.Repository
}

func NewService(repo domain.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, ref string) (*domain.Payment, error) {
	return findPayment(ctx, s.repo, ref)
}

// LatestForOrder accepts a numeric order id or an ORD- order id.
func (s *Service) LatestForOrder(ctx context.Context, orderRef string) (*domain.Payment, error) {
	orderRef = strings.TrimSpace(orderRef)
	if orderRef == "" {
		return nil, application.NewValidation("orderId is required")
	}
	if id, err := strconv.ParseInt(orderRef, 10, 64); err == nil {
		return s.repo.LatestByOrder(ctx, id)
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var latest *domain.Payment
	for _, p := range all {
		if p.OrderNumber == orderRef && (latest == nil || p.ID > latest.ID) {
			latest = p
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Payment, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	if userID == "" {
		return nil, application.NewValidation("userId is required")
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Statistics(ctx context.Context) (domain.Statistics, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}
	return domain.Summarize(all), nil
}

func findPayment(ctx context.Context, repo domain.Repository, ref string) (*domain.Payment, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, application.NewValidation("paymentId is required")
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return repo.Get(ctx, id)
	}
	return repo.GetByPaymentID(ctx, ref)
}
