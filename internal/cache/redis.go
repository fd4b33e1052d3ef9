package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	recentTradesPrefix = "launchpad:trades:recent:"
	pricePrefix        = "launchpad:price:"

	// recentTradesCap bounds each per-token list; older entries fall off.
	recentTradesCap = 200
)

// RedisCache keeps a rolling window of committed trades and the latest spot
// price per token. It is a read accelerator only; the engine's in-process
// store stays authoritative.
type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisCache(addr string, logger *logrus.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	return NewRedisCacheFromClient(client, logger)
}

// NewRedisCacheFromClient wraps an existing client, so the caller can share
// one connection pool across the cache and the flags store.
func NewRedisCacheFromClient(client *redis.Client, logger *logrus.Logger) *RedisCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisCache{client: client, logger: logger}
}

// AddRecentTrade pushes a committed transaction onto the token's recent list
// and trims it to the cap.
func (r *RedisCache) AddRecentTrade(ctx context.Context, tx *models.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}

	key := recentTradesKey(tx.TokenID)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, recentTradesCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push recent trade: %w", err)
	}
	return nil
}

// GetRecentTrades returns up to limit cached transactions for a token,
// newest first. Entries that fail to decode are skipped, not fatal.
func (r *RedisCache) GetRecentTrades(ctx context.Context, tokenID uint64, limit int64) ([]*models.Transaction, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > recentTradesCap {
		limit = recentTradesCap
	}

	vals, err := r.client.LRange(ctx, recentTradesKey(tokenID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("range recent trades: %w", err)
	}

	out := make([]*models.Transaction, 0, len(vals))
	for _, v := range vals {
		var tx models.Transaction
		if err := json.Unmarshal([]byte(v), &tx); err != nil {
			r.logger.WithError(err).Warn("skipping undecodable cached trade")
			continue
		}
		out = append(out, &tx)
	}
	return out, nil
}

// SetPrice stores the latest spot price for a token in lamports per whole
// token.
func (r *RedisCache) SetPrice(ctx context.Context, tokenID uint64, price uint64) error {
	if err := r.client.Set(ctx, priceKey(tokenID), strconv.FormatUint(price, 10), 0).Err(); err != nil {
		return fmt.Errorf("set price: %w", err)
	}
	return nil
}

// GetPrice returns the cached spot price for a token, 0 if none is cached.
func (r *RedisCache) GetPrice(ctx context.Context, tokenID uint64) (uint64, error) {
	val, err := r.client.Get(ctx, priceKey(tokenID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get price: %w", err)
	}

	price, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cached price: %w", err)
	}
	return price, nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func recentTradesKey(tokenID uint64) string {
	return recentTradesPrefix + strconv.FormatUint(tokenID, 10)
}

func priceKey(tokenID uint64) string {
	return pricePrefix + strconv.FormatUint(tokenID, 10)
}
