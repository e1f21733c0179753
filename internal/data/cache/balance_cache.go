// Package cache provides the Redis-backed balance snapshot cache. Cached
// values are an optimization for allocation queries and balance listings;
// every mutation path invalidates the owning account's entry, and any cache
// failure degrades to a fresh projection.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const balanceKeyPrefix = "balance:"

// BalanceCache caches projected account balances with a short TTL
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewBalanceCache creates a balance cache. A nil client disables caching;
// all operations become no-ops and reads always miss.
func NewBalanceCache(logger *slog.Logger, client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached balance for an account and whether it was present.
func (c *BalanceCache) Get(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, bool) {
	if c.client == nil {
		return decimal.Zero, false
	}

	raw, err := c.client.Get(ctx, balanceKeyPrefix+accountID.String()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Balance cache read failed", "account_id", accountID.String(), "error", err)
		}
		return decimal.Zero, false
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		c.logger.Warn("Balance cache entry is malformed, dropping it", "account_id", accountID.String(), "value", raw)
		c.Invalidate(ctx, accountID)
		return decimal.Zero, false
	}

	return balance, true
}

// Set stores a projected balance.
func (c *BalanceCache) Set(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) {
	if c.client == nil {
		return
	}

	err := c.client.Set(ctx, balanceKeyPrefix+accountID.String(), balance.String(), c.ttl).Err()
	if err != nil {
		c.logger.Warn("Balance cache write failed", "account_id", accountID.String(), "error", err)
	}
}

// Invalidate drops the cached balance after a mutation.
func (c *BalanceCache) Invalidate(ctx context.Context, accountID uuid.UUID) {
	if c.client == nil {
		return
	}

	err := c.client.Del(ctx, balanceKeyPrefix+accountID.String()).Err()
	if err != nil {
		c.logger.Warn("Balance cache invalidation failed", "account_id", accountID.String(), "error", err)
	}
}
