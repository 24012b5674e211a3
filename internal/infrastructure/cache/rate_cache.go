package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/erp/accounting/internal/infrastructure/logger"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RedisRateCache is a read-through cache in front of an ExchangeRateProvider.
// Rates are immutable for a given (pair, date), which makes them safe to
// cache aggressively. Redis failures degrade to the underlying source.
type RedisRateCache struct {
	client    *redis.Client
	source    accounting.ExchangeRateProvider
	ttl       time.Duration
	keyPrefix string
}

// NewRedisRateCache creates a new RedisRateCache
func NewRedisRateCache(client *redis.Client, source accounting.ExchangeRateProvider, ttl time.Duration) *RedisRateCache {
	return &RedisRateCache{
		client:    client,
		source:    source,
		ttl:       ttl,
		keyPrefix: "accounting:rates:",
	}
}

// GetRate returns the cached rate, falling through to the source on miss
func (c *RedisRateCache) GetRate(ctx context.Context, from, to valueobject.Currency, date time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	key := c.key(from, to, date)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		rate, parseErr := decimal.NewFromString(cached)
		if parseErr == nil {
			return rate, nil
		}
		// Corrupt entry, drop it and fall through
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		logger.FromContext(ctx).Warn("rate cache unavailable, falling through",
			zap.String("key", key), zap.Error(err))
	}

	rate, err := c.source.GetRate(ctx, from, to, date)
	if err != nil {
		return decimal.Zero, err
	}

	if setErr := c.client.Set(ctx, key, rate.String(), c.ttl).Err(); setErr != nil {
		logger.FromContext(ctx).Warn("failed to cache exchange rate",
			zap.String("key", key), zap.Error(setErr))
	}

	return rate, nil
}

func (c *RedisRateCache) key(from, to valueobject.Currency, date time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", c.keyPrefix, from, to, date.Format("2006-01-02"))
}

// Ensure RedisRateCache implements the interface
var _ accounting.ExchangeRateProvider = (*RedisRateCache)(nil)

// NewRedisClient creates a Redis client and verifies connectivity
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
