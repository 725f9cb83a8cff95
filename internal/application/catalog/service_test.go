package catalog

import (
	"context"
	"testing"

	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/catalog"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.NewCatalogRepository(Seed()...), nil)
}

func TestService_SetStock(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	p, err := svc.SetStock(ctx, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	got, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	_, err = svc.SetStock(ctx, 7, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidStock)
	got, _ = svc.Get(ctx, 7)
	assert.Equal(t, 3, got.Stock)

	_, err = svc.SetStock(ctx, 404, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Decrement(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	p, err := svc.Decrement(ctx, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	_, err = svc.Decrement(ctx, 7, 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = svc.Decrement(ctx, 8, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestService_List(t *testing.T) {
	svc := setupService(t)
	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(Seed()))
}
