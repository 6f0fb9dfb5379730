// Package ratelimit throttles dashboard API clients using a fixed-window
// counter in Redis. When disabled, a noop limiter lets everything through.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/deskview/deskview/internal/logger"
)

// Limiter decides whether a client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// Config controls the limiter. Requests per Window per key.
type Config struct {
	Enabled  bool
	RedisURL string
	Requests int
	Window   time.Duration
}

// New builds a Redis-backed limiter, or a noop one when disabled.
func New(cfg Config, log logger.Logger) (Limiter, error) {
	if !cfg.Enabled {
		return noopLimiter{}, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	log.Info(ctx, "Rate limiter initialized", logger.Fields{
		"requests": cfg.Requests,
		"window":   cfg.Window.String(),
	})

	return &redisLimiter{client: client, requests: cfg.Requests, window: cfg.Window, log: log}, nil
}

type redisLimiter struct {
	client   *redis.Client
	requests int
	window   time.Duration
	log      logger.Logger
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("increment counter: %w", err)
	}
	if count == 1 {
		// First hit in this window starts the expiry.
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.log.Warn(ctx, "Failed to set rate limit expiry", logger.Fields{"key": key})
		}
	}

	return count <= int64(l.requests), nil
}

func (l *redisLimiter) Close() error {
	return l.client.Close()
}

type noopLimiter struct{}

func (noopLimiter) Allow(ctx context.Context, key string) (bool, error) { return true, nil }
func (noopLimiter) Close() error                                        { return nil }
