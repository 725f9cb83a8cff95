// Package redisstore keeps carts in Redis as JSON documents.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/cart"
	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

type CartRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCartRepository stores carts under cart:<userId>. A zero ttl keeps carts forever.
func NewCartRepository(client redis.UniversalClient, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cart repository: redis get: %w", err)
	}

	var c domain.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("cart repository: decode cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []domain.Item{}
	}
	return &c, nil
}

func (r *CartRepository) Save(ctx context.Context, c *domain.Cart) error {
	if c == nil || c.UserID == "" {
		return fmt.Errorf("cart repository: user id is required")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart repository: encode cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(c.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cart repository: redis set: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}
