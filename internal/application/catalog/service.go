package catalog

import (
	"context"
	"fmt"

	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/catalog"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability/logctx"
)

// Service owns product stock. Other services change stock only through it.
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
		log:  tel.Logger().With(observability.F("service", "catalog-service")),
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

// SetStock replaces the stock counter of a product with an absolute value.
func (s *Service) SetStock(ctx context.Context, id int64, stock int) (*domain.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := p.Stock
	if err := p.SetStock(stock); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("catalog: save: %w", err)
	}

	logctx.FromOr(ctx, s.log).Info("stock_updated",
		observability.F("product_id", id),
		observability.F("previous_stock", previous),
		observability.F("stock", p.Stock),
	)
	return p, nil
}

// Decrement takes quantity units out of stock, refusing to go below zero.
func (s *Service) Decrement(ctx context.Context, id int64, quantity int) (*domain.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Decrement(quantity); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("catalog: save: %w", err)
	}
	logctx.FromOr(ctx, s.log).Info("stock_decremented",
		observability.F("product_id", id),
		observability.F("quantity", quantity),
		observability.F("stock", p.Stock),
	)
	return p, nil
}
