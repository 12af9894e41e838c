package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/block"
	"github.com/hackdays-io/toban-indexer/internal/config"
	"github.com/hackdays-io/toban-indexer/internal/emitter"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	"github.com/hackdays-io/toban-indexer/internal/providers/ethereum"
	"github.com/hackdays-io/toban-indexer/internal/providers/jetstream"
	"github.com/hackdays-io/toban-indexer/internal/ratelimit"
	"github.com/hackdays-io/toban-indexer/internal/registry"
	"github.com/hackdays-io/toban-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadEmitterConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Service:         "event-emitter",
		Tags: map[string]string{
			"chain": string(cfg.Ethereum.ChainID),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Event Emitter", zap.String("chain", string(cfg.Ethereum.ChainID)))

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()

	// Resolve static data sources
	loader := registry.NewManifestLoader(adapter.NewFileSystem(), jsonAdapter)
	sources, err := registry.ResolveSources(loader, cfg.DataSources, cfg.DataSourcesFile, cfg.Ethereum.ChainID)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to resolve data sources", zap.Error(err), zap.String("file", cfg.DataSourcesFile))
	}
	reg, err := registry.New(sources)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to build source registry", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Resolved data sources",
		zap.Int("sources", len(sources)),
		zap.Uint64("default_start_block", reg.StartBlock()))

	// Connect to database for the block cursor.
	// Module addresses are rediscovered from the factory logs by the subscriber,
	// since the processor may not have stored them yet.
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	cursorStore := store.NewCursorStore(db)
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize ethereum client
	ethDialer := adapter.NewEthClientDialer()
	ethClient, err := ethDialer.Dial(ctx, cfg.Ethereum.WebSocketURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum websocket", zap.Error(err))
	}
	defer ethClient.Close()

	// Share the RPC provider's request budget with every emitter using the same Redis
	rpcClient := ethClient
	if cfg.RateLimit.Enabled {
		limiter, err := ratelimit.NewLimiter(ratelimit.Config{
			Name:                    "rpc:" + string(cfg.Ethereum.ChainID),
			KeyPrefix:               cfg.RateLimit.KeyPrefix,
			RequestsPerSecond:       cfg.RateLimit.RequestsPerSecond,
			Burst:                   cfg.RateLimit.Burst,
			LocalFallback:           cfg.RateLimit.LocalFallback,
			LocalFallbackMultiplier: cfg.RateLimit.LocalFallbackMultiplier,
		}, adapter.NewRedisClient(cfg.RateLimit.RedisAddr, cfg.RateLimit.RedisPassword, cfg.RateLimit.RedisDB), clockAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create RPC rate limiter", zap.Error(err), zap.String("redis_addr", cfg.RateLimit.RedisAddr))
		}
		defer func() { _ = limiter.Close() }()
		rpcClient = ratelimit.NewEthClient(ethClient, limiter)
	}

	decoder, err := ethereum.NewDecoder(cfg.Ethereum.ChainID)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create event decoder", zap.Error(err))
	}

	blockProvider := block.NewBlockProvider(
		ethereum.NewEthereumBlockFetcher(rpcClient, clockAdapter),
		block.Config{
			TTL:                 cfg.BlockCache.TTL,
			StaleWindow:         cfg.BlockCache.StaleWindow,
			MaxCachedTimestamps: cfg.BlockCache.MaxTimestamps,
			FetchConcurrency:    cfg.BlockCache.FetchConcurrency,
		},
		clockAdapter,
	)
	ethereumClient := ethereum.NewClient(rpcClient, decoder, blockProvider, cfg.Ethereum.LogStepSize)

	ethSubscriber := ethereum.NewSubscriber(ethereum.Config{
		WebSocketURL:        cfg.Ethereum.WebSocketURL,
		ChainID:             cfg.Ethereum.ChainID,
		CatchUpPageSize:     cfg.Ethereum.CatchUpPageSize,
		ReconnectMaxElapsed: cfg.Ethereum.ReconnectMaxElapsed,
	}, ethereumClient, decoder, reg)
	logger.InfoCtx(ctx, "Connected to Ethereum WebSocket")

	// Initialize NATS publisher
	natsPublisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
		URL:             cfg.NATS.URL,
		StreamName:      cfg.NATS.StreamName,
		MaxReconnects:   cfg.NATS.MaxReconnects,
		ReconnectWait:   cfg.NATS.ReconnectWait,
		ConnectionName:  cfg.NATS.ConnectionName,
		DuplicateWindow: cfg.NATS.DuplicateWindow,
		MaxAge:          cfg.NATS.MaxAge,
	}, natsJS, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	logger.InfoCtx(ctx, "Connected to NATS JetStream", zap.String("stream", cfg.NATS.StreamName))

	eventEmitter := emitter.NewEmitter(
		ethSubscriber,
		natsPublisher,
		cursorStore,
		emitter.Config{
			ChainID:           cfg.Ethereum.ChainID,
			StartBlock:        cfg.Ethereum.StartBlock,
			DefaultStartBlock: reg.StartBlock(),
			CursorSaveFreq:    cfg.Cursor.SaveFrequency,
			CursorSaveDelay:   cfg.Cursor.SaveDelay,
			PublishMaxElapsed: cfg.PublishMaxElapsed,
		},
		clockAdapter,
	)
	defer eventEmitter.Close()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := eventEmitter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "emitter"))
		cancel()
	}

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Event Emitter stopped")
}
