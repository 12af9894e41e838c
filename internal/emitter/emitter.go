package emitter

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	"github.com/hackdays-io/toban-indexer/internal/messaging"
	"github.com/hackdays-io/toban-indexer/internal/store"
)

// Config holds the configuration for the event emitter
type Config struct {
	ChainID domain.Chain

	// StartBlock overrides the stored cursor when set
	StartBlock uint64

	// DefaultStartBlock is used when no cursor is stored, typically the deployment
	// block of the earliest configured contract. Zero starts from the latest block.
	DefaultStartBlock uint64

	CursorSaveFreq  uint64        // Save cursor every N blocks
	CursorSaveDelay time.Duration // Or save cursor every N seconds

	// PublishMaxElapsed bounds the retries of a single publish
	PublishMaxElapsed time.Duration
}

// Emitter defines the interface for the event emitter
//
//go:generate mockgen -source=emitter.go -destination=../mocks/emitter.go -package=mocks -mock_names=Emitter=MockEmitter
type Emitter interface {
	// Run starts the event emitter
	Run(ctx context.Context) error
	// Close closes the emitter and cleans up resources
	Close()
}

// Emitter handles chain event subscription and publishing to NATS
type emitter struct {
	subscriber messaging.Subscriber
	publisher  messaging.Publisher
	cursors    store.CursorStore
	config     Config
	clock      adapter.Clock
}

// NewEmitter creates a new event emitter
func NewEmitter(
	sub messaging.Subscriber,
	pub messaging.Publisher,
	cursors store.CursorStore,
	cfg Config,
	clock adapter.Clock,
) Emitter {
	if cfg.PublishMaxElapsed == 0 {
		cfg.PublishMaxElapsed = time.Minute
	}
	return &emitter{
		subscriber: sub,
		publisher:  pub,
		cursors:    cursors,
		config:     cfg,
		clock:      clock,
	}
}

// startBlock resolves where the subscription begins:
// the configured block, then the block after the cursor, then the default block, then the head
func (e *emitter) startBlock(ctx context.Context) (uint64, error) {
	chain := zap.String("chain", string(e.config.ChainID))

	if e.config.StartBlock > 0 {
		logger.InfoCtx(ctx, "Starting from configured block", chain, zap.Uint64("block", e.config.StartBlock))
		return e.config.StartBlock, nil
	}

	lastBlock, err := e.cursors.GetBlockCursor(ctx, string(e.config.ChainID))
	if err != nil {
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}
	if lastBlock > 0 {
		logger.InfoCtx(ctx, "Resuming from last processed block", chain, zap.Uint64("block", lastBlock+1))
		return lastBlock + 1, nil
	}

	if e.config.DefaultStartBlock > 0 {
		logger.InfoCtx(ctx, "Starting from earliest data source block", chain, zap.Uint64("block", e.config.DefaultStartBlock))
		return e.config.DefaultStartBlock, nil
	}

	latestBlock, err := e.subscriber.GetLatestBlock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block number: %w", err)
	}
	logger.InfoCtx(ctx, "Starting from latest block", chain, zap.Uint64("block", latestBlock))
	return latestBlock, nil
}

// Run starts the event emitter
func (e *emitter) Run(ctx context.Context) error {
	startBlock, err := e.startBlock(ctx)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		logger.InfoCtx(ctx, "Starting event subscription", zap.String("chain", string(e.config.ChainID)))

		// blocks below the one of the current event are fully published
		lastSavedBlock := startBlock - min(startBlock, 1)
		lastSaveTime := e.clock.Now()

		handler := func(event *domain.ChainEvent) error {
			if err := e.publish(ctx, event); err != nil {
				return fmt.Errorf("failed to publish event %s: %w", event.ID(), err)
			}

			completed := event.BlockNumber - min(event.BlockNumber, 1)
			if completed <= lastSavedBlock {
				return nil
			}

			// Save cursor periodically (every N blocks or N seconds)
			shouldSave := completed-lastSavedBlock >= e.config.CursorSaveFreq ||
				e.clock.Since(lastSaveTime) >= e.config.CursorSaveDelay

			if shouldSave {
				if err := e.cursors.SetBlockCursor(ctx, string(e.config.ChainID), completed); err != nil {
					logger.ErrorCtx(ctx, err, zap.String("message", "Failed to save block cursor"))
				} else {
					lastSavedBlock = completed
					lastSaveTime = e.clock.Now()
				}
			}

			return nil
		}

		errCh <- e.subscriber.SubscribeEvents(ctx, startBlock, handler)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// publish retries transient broker failures with exponential backoff
func (e *emitter) publish(ctx context.Context, event *domain.ChainEvent) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = e.config.PublishMaxElapsed

	operation := func() error {
		return e.publisher.PublishEvent(ctx, event)
	}

	notify := func(err error, d time.Duration) {
		logger.WarnCtx(ctx, "Publish failed, retrying",
			zap.String("event", event.ID()),
			zap.Error(err),
			zap.Duration("next_retry_in", d))
	}

	return backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
}

// Close closes the emitter and cleans up resources
func (e *emitter) Close() {
	e.subscriber.Close()
	e.publisher.Close()
}
