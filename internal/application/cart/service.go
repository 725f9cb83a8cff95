package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/cart"
	domcatalog "github.com/Zhima-Mochi/bookstore-saga/internal/domain/catalog"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability/logctx"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo    domain.Repository
	catalog CatalogPort
	group   singleflight.Group
	log     observability.Logger
}

func NewService(repo domain.Repository, catalog CatalogPort, tel observability.Observability) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		repo:    repo,
		catalog: catalog,
		log:     tel.Logger().With(observability.F("service", "cart-service")),
	}
}

// Get returns the user's cart, creating and storing an empty one on first access.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, application.NewValidation("userId is required")
	}
	c, err := s.repo.Get(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// Concurrent first reads for one user share a single creation.
	v, err, _ := s.group.Do(userID, func() (any, error) {
		if existing, err := s.repo.Get(ctx, userID); err == nil {
			return existing, nil
		}
		fresh := domain.New(userID)
		if err := s.repo.Save(ctx, fresh); err != nil {
			return nil, fmt.Errorf("cart: create: %w", err)
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart).Clone(), nil
}

type AddItemInput struct {
	UserID    string
	ProductID int64
	Quantity  int
}

func (s *Service) AddItem(ctx context.Context, in AddItemInput) (*domain.Cart, error) {
	if in.UserID == "" || in.ProductID == 0 {
		return nil, application.NewValidation("userId and productId are required")
	}
	if in.Quantity <= 0 {
		return nil, application.NewValidation("quantity must be greater than 0")
	}

	p, err := s.checkStock(ctx, in.ProductID, in.Quantity)
	if err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	c.AddItem(domain.Snapshot{
		ProductID: p.ID,
		Title:     p.Title,
		Author:    p.Author,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
	}, in.Quantity)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("cart: save: %w", err)
	}

	logctx.FromOr(ctx, s.log).Info("cart_item_added",
		observability.F("user_id", in.UserID),
		observability.F("product_id", in.ProductID),
		observability.F("quantity", in.Quantity),
		observability.F("total_items", c.TotalItems),
	)
	return c, nil
}

type UpdateItemInput struct {
	UserID    string
	ProductID int64
	Quantity  int
}

// UpdateItem sets a line's quantity; zero removes the line.
func (s *Service) UpdateItem(ctx context.Context, in UpdateItemInput) (*domain.Cart, error) {
	if in.UserID == "" || in.ProductID == 0 {
		return nil, application.NewValidation("userId and productId are required")
	}
	if in.Quantity < 0 {
		return nil, application.NewValidation("quantity cannot be negative")
	}
	if in.Quantity > 0 {
		if _, err := s.checkStock(ctx, in.ProductID, in.Quantity); err != nil {
			return nil, err
		}
	}

	c, err := s.Get(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !c.UpdateItem(in.ProductID, in.Quantity) {
		return nil, domain.ErrItemNotFound
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("cart: save: %w", err)
	}
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID string, productID int64) (*domain.Cart, error) {
	if userID == "" || productID == 0 {
		return nil, application.NewValidation("userId and productId are required")
	}
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !c.RemoveItem(productID) {
		return nil, domain.ErrItemNotFound
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("cart: save: %w", err)
	}
	return c, nil
}

// Clear empties the cart but keeps it.
func (s *Service) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Clear()
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("cart: save: %w", err)
	}
	logctx.FromOr(ctx, s.log).Info("cart_cleared", observability.F("user_id", userID))
	return c, nil
}

func (s *Service) checkStock(ctx context.Context, productID int64, quantity int) (*domcatalog.Product, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, application.ErrRemoteNotFound) || errors.Is(err, domcatalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", domcatalog.ErrNotFound, productID)
		}
		return nil, err
	}
	if p.Stock < quantity {
		return nil, fmt.Errorf("%w: only %d items available", domcatalog.ErrInsufficientStock, p.Stock)
	}
	return p, nil
}
