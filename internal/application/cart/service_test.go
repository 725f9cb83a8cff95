package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/cart"
	domcatalog "github.com/Zhima-Mochi/bookstore-saga/internal/domain/catalog"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products map[int64]domcatalog.Product
	err      error
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*domcatalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", application.ErrRemoteNotFound, id)
	}
	return &p, nil
}

func setupService(t *testing.T) (*Service, *fakeCatalog) {
	t.Helper()
	catalog := &fakeCatalog{products: map[int64]domcatalog.Product{
		7: {ID: 7, Title: "Dune", Author: "Frank Herbert", Price: 10.00, Stock: 5},
		9: {ID: 9, Title: "Emma", Author: "Jane Austen", Price: 3.33, Stock: 100},
	}}
	return NewService(memory.NewCartRepository(), catalog, nil), catalog
}

func TestService_GetCreatesEmptyCart(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	c, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalPrice)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, application.ErrValidation)
}

func TestService_GetConcurrentFirstAccess(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := svc.Get(ctx, "u1")
			assert.NoError(t, err)
			assert.Equal(t, "u1", c.UserID)
		}()
	}
	wg.Wait()
}

func TestService_AddItem(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	c, err := svc.AddItem(ctx, AddItemInput{UserID: "u1", ProductID: 7, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "Dune", c.Items[0].Title)
	assert.InDelta(t, 20.00, c.TotalPrice, 0.0001)
	assert.Equal(t, 2, c.TotalItems)

	c, err = svc.AddItem(ctx, AddItemInput{UserID: "u1", ProductID: 9, Quantity: 3})
	require.NoError(t, err)
	assert.InDelta(t, 29.99, c.TotalPrice, 0.0001)
	assert.Equal(t, 5, c.TotalItems)

	stored, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, c.TotalPrice, stored.TotalPrice)
}

func TestService_AddItemRejections(t *testing.T) {
	svc, catalog := setupService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, AddItemInput{UserID: "u1", ProductID: 7, Quantity: 6})
	assert.ErrorIs(t, err, domcatalog.ErrInsufficientStock)

	_, err = svc.AddItem(ctx, AddItemInput{UserID: "u1", ProductID: 404, Quantity: 1})
	assert.ErrorIs(t, err, domcatalog.ErrNotFound)

	_, err = svc.AddItem(ctx, AddItemInput{UserID: "", ProductID: 7, Quantity: 1})
	assert.ErrorIs(t, err, application.ErrValidation)

	_, err = svc.AddItem(ctx, AddItemInput{UserID: "u1", ProductID: 7, Quantity: 0})
	assert.ErrorIs(t, err, application.ErrValidation)

	catalog.err = application.ErrDownstream
	_, err = svc.AddItem(ctx, AddItemInput{UserID: "u1", ProductID: 7, Quantity: 1})
	assert.ErrorIs(t, err, application.ErrDownstream)

	c, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestService_UpdateItem(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, AddItemInput{UserID: "u1", ProductID: 7, Quantity: 1})
	require.NoError(t, err)

	c, err := svc.UpdateItem(ctx, UpdateItemInput{UserID: "u1", ProductID: 7, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, c.TotalItems)
	assert.InDelta(t, 40.00, c.TotalPrice, 0.0001)

	_, err = svc.UpdateItem(ctx, UpdateItemInput{UserID: "u1", ProductID: 7, Quantity: 9})
	assert.ErrorIs(t, err, domcatalog.ErrInsufficientStock)

	_, err = svc.UpdateItem(ctx, UpdateItemInput{UserID: "u1", ProductID: 7, Quantity: -1})
	assert.ErrorIs(t, err, application.ErrValidation)

	_, err = svc.UpdateItem(ctx, UpdateItemInput{UserID: "u1", ProductID: 9, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	c, err = svc.UpdateItem(ctx, UpdateItemInput{UserID: "u1", ProductID: 7, Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalItems)
}

func TestService_RemoveAndClear(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, AddItemInput{UserID: "u1", ProductID: 7, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, AddItemInput{UserID: "u1", ProductID: 9, Quantity: 2})
	require.NoError(t, err)

	c, err := svc.RemoveItem(ctx, "u1", 7)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(9), c.Items[0].ProductID)

	_, err = svc.RemoveItem(ctx, "u1", 7)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	c, err = svc.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalPrice)

	stored, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)
	assert.Empty(t, stored.Items)
}
