package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/catalog"
)

type CatalogRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
}

// NewCatalogRepository returns a repository pre-loaded with seed.
func NewCatalogRepository(seed ...domain.Product) *CatalogRepository {
	r := &CatalogRepository{
		products: make(map[int64]*domain.Product, len(seed)),
	}
	for i := range seed {
		r.products[seed[i].ID] = seed[i].Clone()
	}
	return r
}

func (r *CatalogRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *CatalogRepository) List(ctx context.Context) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CatalogRepository) Save(ctx context.Context, p *domain.Product) error {
	_ = ctx
	if p == nil || p.ID == 0 {
		return fmt.Errorf("catalog repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[p.ID] = p.Clone()
	return nil
}
