// Package cache provides a small byte-oriented cache used to keep menu
// listings off the database hot path.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/config"
)

// ErrMiss reports an absent key.
var ErrMiss = errors.New("cache miss")

// Store is the cache abstraction. Values are opaque bytes; callers own the
// serialization. A miss is ErrMiss, never a nil value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Module wires the cache store.
var Module = fx.Provide(NewStore)

// NewStore builds a cache store based on configuration.
func NewStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (Store, error) {
	if !cfg.Cache.Enabled || cfg.Cache.Driver == "noop" {
		logger.Info("cache disabled; using noop store")
		return noopStore{}, nil
	}
	switch cfg.Cache.Driver {
	case "redis":
		return newRedisStore(lc, cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Cache.Driver)
	}
}

type redisStore struct {
	client *redis.Client
}

func newRedisStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis ping: %w", err)
			}
			logger.Info("redis cache connected", zap.String("addr", cfg.Cache.Redis.Addr))
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return &redisStore{client: client}
}

func (r *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// noopStore misses everything; the catalog simply reads the database.
type noopStore struct{}

func (noopStore) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (noopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (noopStore) Delete(context.Context, string) error { return nil }
