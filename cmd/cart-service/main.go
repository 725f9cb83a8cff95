package main

import (
	"context"
	"fmt"
	"os"
	"time"

	appcart "github.com/Zhima-Mochi/bookstore-saga/internal/application/cart"
	"github.com/Zhima-Mochi/bookstore-saga/internal/bootstrap"
	domcart "github.com/Zhima-Mochi/bookstore-saga/internal/domain/cart"
	httptransport "github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/http"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/memory"
	redisstore "github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/redis"
	httppresentation "github.com/Zhima-Mochi/bookstore-saga/internal/presentation/http"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	rt, err := bootstrap.Init("cart-service", ":3003")
	if err != nil {
		fmt.Fprintln(os.Stderr, "cart-service:", err)
		os.Exit(1)
	}

	repo, closeRepo, err := cartRepository(rt)
	if err != nil {
		rt.Logger.Error("cart_store_unavailable", zap.Error(err))
		os.Exit(1)
	}
	defer closeRepo()

	catalog := httptransport.NewCatalogClient(rt.Client("catalog", rt.Config.Upstreams.CatalogURL))
	svc := appcart.NewService(repo, catalog, rt.Tel)

	router := rt.Router()
	httppresentation.NewCartHandler(svc).Register(router)

	if err := rt.Run(router); err != nil {
		closeRepo()
		os.Exit(1)
	}
}

func cartRepository(rt *bootstrap.Runtime) (domcart.Repository, func(), error) {
	cfg := rt.Config.Cart
	if cfg.Store != "redis" {
		return memory.NewCartRepository(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	rt.Logger.Info("cart_store_redis", zap.String("addr", cfg.RedisAddr))
	return redisstore.NewCartRepository(client, cfg.TTL), func() { _ = client.Close() }, nil
}
