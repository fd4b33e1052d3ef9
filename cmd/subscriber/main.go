// ============================================================================
// cmd/subscriber/main.go - Example trade feed consumer
// ============================================================================
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/datmedevil17/memeLaunchpad-22/internal/cache"
	"github.com/datmedevil17/memeLaunchpad-22/internal/config"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	c := cache.NewRedisCache(cfg.RedisAddr, logger)
	defer c.Close()

	trades, err := c.SubscribeTrades(ctx)
	if err != nil {
		logger.WithError(err).Fatal("failed to subscribe to trade feed")
	}

	logger.Info("trade subscriber running, press Ctrl+C to stop")

	go func() {
		for tx := range trades {
			logger.WithFields(logrus.Fields{
				"token_id":     tx.TokenID,
				"type":         tx.Type,
				"sol_amount":   tx.SolAmount,
				"token_amount": tx.TokenAmount,
				"price":        tx.Price,
				"user":         tx.User.String(),
			}).Info("trade")
		}
	}()

	<-sigChan
	logger.Info("shutting down subscriber")
}
