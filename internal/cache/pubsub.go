// ============================================================================
// cache/pubsub.go - Redis Pub/Sub trade broadcast
// ============================================================================
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
)

const (
	tradesAllChannel    = "trades:all"
	tradesTokenTemplate = "trades:token:%d"
)

// PublishTrade broadcasts a committed transaction to the firehose channel and
// the token-specific channel.
func (r *RedisCache) PublishTrade(ctx context.Context, tx *models.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}

	channels := []string{
		tradesAllChannel,
		fmt.Sprintf(tradesTokenTemplate, tx.TokenID),
	}

	pipe := r.client.Pipeline()
	for _, channel := range channels {
		pipe.Publish(ctx, channel, data)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// SubscribeTrades streams every published trade until ctx is cancelled. The
// returned channel closes when the subscription ends.
func (r *RedisCache) SubscribeTrades(ctx context.Context) (<-chan *models.Transaction, error) {
	pubsub := r.client.Subscribe(ctx, tradesAllChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe trades: %w", err)
	}

	r.logger.WithField("channel", tradesAllChannel).Info("subscribed to trade feed")

	out := make(chan *models.Transaction)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var tx models.Transaction
				if err := json.Unmarshal([]byte(msg.Payload), &tx); err != nil {
					r.logger.WithError(err).Warn("error unmarshaling trade")
					continue
				}
				select {
				case out <- &tx:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
