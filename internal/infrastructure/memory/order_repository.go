package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
)

// OrderRepository is append-only: orders are never deleted.
type OrderRepository struct {
	mu        sync.RWMutex
	nextID    int64
	orders    map[int64]*domain.Order
	byOrderID map[string]int64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		nextID:    1,
		orders:    make(map[int64]*domain.Order),
		byOrderID: make(map[string]int64),
	}
}

func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	_ = ctx
	if order == nil || order.OrderID == "" {
		return fmt.Errorf("order repository: order id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byOrderID[order.OrderID]; exists {
		return fmt.Errorf("order repository: duplicate order id %s", order.OrderID)
	}

	order.ID = r.nextID
	r.nextID++
	r.orders[order.ID] = cloneOrder(order)
	r.byOrderID[order.OrderID] = order.ID
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *OrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byOrderID[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneOrder(r.orders[id]), nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	_ = ctx
	if order == nil || order.ID == 0 {
		return fmt.Errorf("order repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; !exists {
		return domain.ErrNotFound
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

// List returns every order in insertion order.
func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.filter(ctx, func(*domain.Order) bool { return true }, false)
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.filter(ctx, func(o *domain.Order) bool { return o.UserID == userID }, true)
}

func (r *OrderRepository) filter(ctx context.Context, keep func(*domain.Order) bool, newestFirst bool) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0)
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	if order == nil {
		return nil
	}
	return order.Clone()
}
