package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/go-redis/redis/v8"

	"github.com/sharedspaces/ledger/internal/ledger"
)

// Config is the redis configuration.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// cacheEntryTTL bounds staleness in case an invalidation is lost to a race
// between concurrent writers.
var cacheEntryTTL = 30 * time.Second

// RedisCache implements the Cache interface backed by redis, for running
// several service replicas against one set of derived balances.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a RedisCache from the given configuration.
func NewRedisCache(config Config) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.DB,
		}),
	}
}

func balancesKey(listID string) string {
	return "balances:" + listID
}

// GetBalances returns the cached balances for a list, if present.
// Redis errors are treated as cache misses: the caller recomputes.
func (c *RedisCache) GetBalances(ctx context.Context, listID string) ([]ledger.Balance, bool) {
	val, err := c.client.Get(ctx, balancesKey(listID)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("Balance cache read failed", "list_id", listID, "error", err)
		return nil, false
	}

	var balances []ledger.Balance
	if err := json.Unmarshal([]byte(val), &balances); err != nil {
		slog.Warn("Balance cache entry corrupt", "list_id", listID, "error", err)
		return nil, false
	}
	return balances, true
}

// SetBalances stores the balances for a list with a TTL.
func (c *RedisCache) SetBalances(ctx context.Context, listID string, balances []ledger.Balance) {
	value, err := json.Marshal(balances)
	if err != nil {
		slog.Warn("Balance cache encode failed", "list_id", listID, "error", err)
		return
	}
	if err := c.client.Set(ctx, balancesKey(listID), value, cacheEntryTTL).Err(); err != nil {
		slog.Warn("Balance cache write failed", "list_id", listID, "error", err)
	}
}

// Invalidate drops the cached balances for a list.
func (c *RedisCache) Invalidate(ctx context.Context, listID string) {
	if err := c.client.Del(ctx, balancesKey(listID)).Err(); err != nil {
		slog.Warn("Balance cache invalidation failed", "list_id", listID, "error", err)
	}
}

// Close releases the redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
