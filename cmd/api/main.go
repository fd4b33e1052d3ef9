package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/datmedevil17/memeLaunchpad-22/internal/ai"
	"github.com/datmedevil17/memeLaunchpad-22/internal/bank"
	"github.com/datmedevil17/memeLaunchpad-22/internal/cache"
	"github.com/datmedevil17/memeLaunchpad-22/internal/config"
	"github.com/datmedevil17/memeLaunchpad-22/internal/engine"
	"github.com/datmedevil17/memeLaunchpad-22/internal/flags"
	"github.com/datmedevil17/memeLaunchpad-22/internal/jupiter"
	"github.com/datmedevil17/memeLaunchpad-22/internal/ledger"
	"github.com/datmedevil17/memeLaunchpad-22/internal/server"
	"github.com/datmedevil17/memeLaunchpad-22/internal/storage"
	"github.com/datmedevil17/memeLaunchpad-22/internal/store"
	"github.com/datmedevil17/memeLaunchpad-22/internal/wallet"
	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main is the entry point for the launchpad API server
// It initializes the trading engine and all dependencies, then starts the
// HTTP server with graceful shutdown
func main() {
	// Initialize structured logger with custom formatting
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	// Load and validate configuration from environment variables
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown (Ctrl+C, SIGTERM)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Optional Redis client for trade cache and kill switches
	var tradeCache storage.TradeCache
	var flagStore *flags.Store
	if cfg.RedisEnabled {
		rclient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   0, // Use default database for main application
		})
		if err := rclient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Fatal("failed to connect to Redis")
		}

		tradeCache = cache.NewRedisCacheFromClient(rclient, logger)

		fs, err := flags.NewStore(rclient)
		if err != nil {
			logger.WithError(err).Fatal("failed to create flags store")
		}
		flagStore = fs
	}

	// Optional ClickHouse ledger for long-term transaction audit
	var sink storage.TradeSink
	if cfg.LedgerEnabled {
		l, err := ledger.NewClickHouseLedger(ledger.Options{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		}, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to ClickHouse ledger")
		}
		sink = l
		defer func() {
			_ = l.Close()
		}()
	}

	// Settlement wallet signs committed transactions before they hit the
	// ledger; an ephemeral key is fine outside production
	var signer *wallet.Wallet
	if key := os.Getenv("SETTLEMENT_KEY"); key != "" {
		w, err := wallet.FromBase58(key)
		if err != nil {
			logger.WithError(err).Fatal("invalid SETTLEMENT_KEY")
		}
		signer = w
	} else {
		w, err := wallet.NewRandom()
		if err != nil {
			logger.WithError(err).Fatal("failed to generate settlement wallet")
		}
		signer = w
		logger.WithField("pubkey", signer.PublicKey().String()).Warn("using ephemeral settlement wallet")
	}

	// Build the trading engine with its in-process collaborators
	eng, err := engine.New(engine.Deps{
		Store:    store.New(),
		Treasury: bank.NewTreasury(),
		Mints:    bank.NewMintRegistry(),
		Sink:     sink,
		Cache:    tradeCache,
		Signer:   signer,
		Logger:   logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create engine")
	}

	// The platform authority defaults to a fresh keypair unless pinned
	authority := solana.NewWallet().PublicKey()
	if v := os.Getenv("PLATFORM_AUTHORITY"); v != "" {
		pk, err := solana.PublicKeyFromBase58(v)
		if err != nil {
			logger.WithError(err).Fatal("invalid PLATFORM_AUTHORITY")
		}
		authority = pk
	}
	if _, err := eng.Initialize(authority); err != nil {
		logger.WithError(err).Fatal("failed to initialize platform")
	}

	// Initialize AI agent for natural language queries (optional)
	var agent *ai.Agent
	aiBase := ai.AgentConfig{
		ClickHouseAddr:     cfg.ClickHouseAddr,
		ClickHouseDatabase: cfg.ClickHouseDatabase,
		ClickHouseUsername: cfg.ClickHouseUsername,
		ClickHousePassword: cfg.ClickHousePassword,
		OpenRouterAPIKey:   cfg.OpenRouterAPIKey,
		Model:              "openai/gpt-4.1-mini", // Default model for NL→SQL translation
		Logger:             logger,
	}

	// Only initialize AI if OpenRouter API key is provided
	if cfg.OpenRouterAPIKey != "" {
		a, err := ai.NewAgent(ctx, aiBase)
		if err != nil {
			logger.WithError(err).Warn("failed to initialize ai agent")
		} else {
			agent = a
			defer func() {
				_ = agent.Close() // Clean up AI resources on shutdown
			}()
		}
	}

	// Create handlers with all dependencies injected
	h := &server.Handlers{
		Engine:       eng,        // Trading engine (authoritative state)
		Cache:        tradeCache, // Redis-backed trade cache
		Flags:        flagStore,  // Redis-backed kill switches
		AI:           agent,      // Optional AI agent (can be nil)
		AIBaseConfig: aiBase,     // Base AI configuration for model overrides
		DevMode:      cfg.DevMode,
		Logger:       logger,
		Jupiter:      jupiter.NewClient(os.Getenv("JUPITER_BASE_URL"), os.Getenv("JUPITER_API_KEY")),
	}

	// Create HTTP server with configuration and handlers
	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	// Setup graceful shutdown in a separate goroutine
	go func() {
		<-sigCh // Wait for shutdown signal
		logger.Info("shutting down")
		cancel()                               // Cancel context to stop ongoing operations
		_ = srv.Shutdown(context.Background()) // Gracefully shutdown HTTP server
	}()

	// Start the HTTP server
	logger.WithField("addr", cfg.APIAddr).Info("launchpad api starting")
	if err := srv.Start(); err != nil {
		// "http: Server closed" is expected during graceful shutdown
		if err.Error() == "http: Server closed" {
			return
		}
		logger.WithError(err).Fatal("api server failed")
	}

	// Wait for server to be fully shut down
	if err := srv.WaitClosed(context.Background()); err != nil {
		fmt.Println(err)
	}
}
