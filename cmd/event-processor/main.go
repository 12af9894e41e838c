package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/bridge"
	"github.com/hackdays-io/toban-indexer/internal/config"
	"github.com/hackdays-io/toban-indexer/internal/dispatcher"
	"github.com/hackdays-io/toban-indexer/internal/indexer"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	"github.com/hackdays-io/toban-indexer/internal/registry"
	"github.com/hackdays-io/toban-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	storeKind  = flag.String("store", "postgres", "Entity store backend: postgres or memory")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadProcessorConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Service:         "event-processor",
		Tags: map[string]string{
			"chain": string(cfg.Ethereum.ChainID),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Event Processor", zap.String("store", *storeKind))

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()

	// Initialize store
	var dataStore store.Store
	switch *storeKind {
	case "memory":
		logger.WarnCtx(ctx, "Using in-memory store, indexed state is lost on restart")
		dataStore = store.NewMemoryStore()
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
		}
		if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
			logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
		}
		if err := store.Migrate(db); err != nil {
			logger.FatalCtx(ctx, "Failed to migrate database", zap.Error(err))
		}
		dataStore = store.NewPGStore(db)
		logger.InfoCtx(ctx, "Connected to database")
	default:
		logger.FatalCtx(ctx, "Unknown store backend", zap.String("store", *storeKind))
	}

	// Build the source registry from configuration and persisted module registrations
	loader := registry.NewManifestLoader(adapter.NewFileSystem(), jsonAdapter)
	sources, err := registry.ResolveSources(loader, cfg.DataSources, cfg.DataSourcesFile, cfg.Ethereum.ChainID)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to resolve data sources", zap.Error(err), zap.String("file", cfg.DataSourcesFile))
	}
	reg, err := registry.New(sources)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to build source registry", zap.Error(err))
	}
	if err := reg.Load(ctx, dataStore); err != nil {
		logger.FatalCtx(ctx, "Failed to load module registrations", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Loaded source registry", zap.Int("sources", len(reg.Sources())))

	eventDispatcher := dispatcher.New(reg, indexer.NewIndexer(dataStore, reg, jsonAdapter), clockAdapter)

	eventBridge, err := bridge.NewBridge(bridge.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		ConsumerName:   cfg.NATS.ConsumerName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
		AckWaitTimeout: cfg.NATS.AckWait,
		MaxDeliver:     cfg.NATS.MaxDeliver,
		FilterSubject:  cfg.NATS.FilterSubject,
		RetryBackoff:   cfg.NATS.RetryBackoff,
	}, natsJS, eventDispatcher, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create event bridge", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer eventBridge.Close()
	logger.InfoCtx(ctx, "Connected to NATS JetStream", zap.String("stream", cfg.NATS.StreamName))

	errCh := make(chan error, 2)

	// Serve Prometheus metrics
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.Address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.InfoCtx(ctx, "Serving metrics", zap.String("address", cfg.Metrics.Address))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	go func() {
		if err := eventBridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "processor"))
	}
	cancel()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, zap.String("message", "Failed to shutdown metrics server"))
		}
	}

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Event Processor stopped")
}
