package storage

import (
	"context"
	"io"

	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
)

// TradeCache defines the interface for caching and broadcasting committed trades
type TradeCache interface {
	// AddRecentTrade adds a committed transaction to the recent-trades list
	AddRecentTrade(ctx context.Context, tx *models.Transaction) error

	// GetRecentTrades retrieves the most recent transactions for a token
	GetRecentTrades(ctx context.Context, tokenID uint64, limit int64) ([]*models.Transaction, error)

	// SetPrice updates the cached spot price for a token
	SetPrice(ctx context.Context, tokenID uint64, price uint64) error

	// GetPrice retrieves the cached spot price for a token
	GetPrice(ctx context.Context, tokenID uint64) (uint64, error)

	// PublishTrade publishes a committed transaction to the Pub/Sub channel
	PublishTrade(ctx context.Context, tx *models.Transaction) error

	// SubscribeTrades subscribes to real-time trade events
	SubscribeTrades(ctx context.Context) (<-chan *models.Transaction, error)

	// Ping checks if the cache is reachable
	Ping(ctx context.Context) error

	// Close closes the cache connection
	io.Closer
}

// TradeSink defines the interface for persistent transaction storage
type TradeSink interface {
	// InsertTransaction appends a committed transaction to the audit store
	InsertTransaction(ctx context.Context, tx *models.Transaction) error

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error

	// Close closes the store connection
	io.Closer
}
