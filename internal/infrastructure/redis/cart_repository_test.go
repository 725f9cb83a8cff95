package redisstore

import (
	"context"
	"testing"
	"time"

	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/cart"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T, ttl time.Duration) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCartRepository(client, ttl), mr
}

func TestCartRepository_RoundTrip(t *testing.T) {
	repo, mr := setupRepo(t, 0)
	ctx := context.Background()

	c := domain.New("u1")
	c.AddItem(domain.Snapshot{ProductID: 7, Title: "Dune", Author: "Herbert", Price: 10}, 2)
	require.NoError(t, repo.Save(ctx, c))
	assert.True(t, mr.Exists("cart:u1"))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(7), got.Items[0].ProductID)
	assert.Equal(t, 20.0, got.TotalPrice)
	assert.Equal(t, 2, got.TotalItems)
}

func TestCartRepository_Miss(t *testing.T) {
	repo, _ := setupRepo(t, 0)

	_, err := repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartRepository_ClearedCartKeepsEmptyItems(t *testing.T) {
	repo, _ := setupRepo(t, 0)
	ctx := context.Background()

	c := domain.New("u1")
	c.AddItem(domain.Snapshot{ProductID: 1, Price: 1}, 1)
	c.Clear()
	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestCartRepository_TTL(t *testing.T) {
	repo, mr := setupRepo(t, time.Hour)
	require.NoError(t, repo.Save(context.Background(), domain.New("u1")))

	assert.Equal(t, time.Hour, mr.TTL("cart:u1"))
	mr.FastForward(2 * time.Hour)

	_, err := repo.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartRepository_CorruptDocument(t *testing.T) {
	repo, mr := setupRepo(t, 0)
	require.NoError(t, mr.Set("cart:u1", "{not json"))

	_, err := repo.Get(context.Background(), "u1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestCartRepository_ServerDown(t *testing.T) {
	repo, mr := setupRepo(t, 0)
	mr.Close()

	_, err := repo.Get(context.Background(), "u1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
