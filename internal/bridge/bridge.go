package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/dispatcher"
	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	natsjs "github.com/hackdays-io/toban-indexer/internal/providers/jetstream"
)

// Config holds the configuration for the event bridge
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
	FilterSubject  string
	// RetryBackoff is the redelivery delay after the n-th failed attempt.
	// The last entry repeats for every later attempt.
	RetryBackoff []time.Duration
}

// DefaultRetryBackoff is used when Config.RetryBackoff is empty
var DefaultRetryBackoff = []time.Duration{
	time.Second,
	5 * time.Second,
	15 * time.Second,
	30 * time.Second,
	time.Minute,
}

// ErrRetriesExhausted is returned by Run when an event failed on its last allowed delivery.
// The bridge stops instead of letting the consumer move past the event.
var ErrRetriesExhausted = errors.New("event retries exhausted")

// Bridge defines the interface for the event bridge
//
//go:generate mockgen -source=bridge.go -destination=../mocks/bridge.go -package=mocks -mock_names=Bridge=MockBridge
type Bridge interface {
	// Run consumes the event stream until ctx is canceled
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

type bridge struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	dispatcher dispatcher.Dispatcher
	json       adapter.JSON
	config     Config
	fatal      chan error
	stopped    atomic.Bool
}

// NewBridge connects to NATS and returns a bridge that feeds the dispatcher
func NewBridge(
	cfg Config,
	natsJS adapter.NatsJetStream,
	d dispatcher.Dispatcher,
	jsonAdapter adapter.JSON,
) (Bridge, error) {
	if cfg.FilterSubject == "" {
		cfg.FilterSubject = natsjs.SubjectWildcard
	}
	if len(cfg.RetryBackoff) == 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}

	nc, js, err := natsJS.Connect(cfg.URL, natsjs.ConnectionOptions(natsjs.Config{
		URL:            cfg.URL,
		StreamName:     cfg.StreamName,
		MaxReconnects:  cfg.MaxReconnects,
		ReconnectWait:  cfg.ReconnectWait,
		ConnectionName: cfg.ConnectionName,
	})...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &bridge{
		nc:         nc,
		js:         js,
		dispatcher: d,
		json:       jsonAdapter,
		config:     cfg,
		fatal:      make(chan error, 1),
	}, nil
}

// Run starts the event bridge.
// At most one message is in flight, so events reach the dispatcher in stream order.
func (b *bridge) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting event bridge", zap.String("stream", b.config.StreamName), zap.String("consumer", b.config.ConsumerName))

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		MaxAckPending: 1,
		BackOff:       b.redeliveryBackoff(),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		FilterSubject: b.config.FilterSubject,
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved",
		zap.String("consumer", consumerInfo.Name),
		zap.Uint64("pending", consumerInfo.NumPending))

	sub, err := consumer.Consume(func(msg adapter.Message) {
		if b.stopped.Load() {
			return
		}
		if err := b.handleMessage(ctx, msg); err != nil {
			b.stopped.Store(true)
			b.fatal <- err
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.InfoCtx(ctx, "Started consuming messages")

	select {
	case <-ctx.Done():
		logger.InfoCtx(ctx, "Shutting down event bridge")
		return ctx.Err()
	case <-sub.Closed():
		return fmt.Errorf("%w: consumer closed", domain.ErrSubscriptionFailed)
	case err := <-b.fatal:
		logger.ErrorCtx(ctx, err, zap.String("message", "Stopping event bridge"))
		return err
	}
}

// handleMessage dispatches a single message and settles it.
// Malformed events are terminated, other failures are redelivered after a delay.
// It returns an error only when a failed event has no delivery left.
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) error {
	var event domain.ChainEvent
	if err := b.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal event"), zap.String("subject", msg.Subject()))
		terminate(ctx, msg)
		return nil
	}

	var delivered uint64
	if metadata, err := msg.Metadata(); err == nil {
		delivered = metadata.NumDelivered
	}

	logger.DebugCtx(ctx, "Received event",
		zap.String("id", event.ID()),
		zap.String("event", string(event.Name)),
		zap.Uint64("block", event.BlockNumber),
		zap.Uint64("deliveryCount", delivered),
	)

	if err := b.dispatcher.Dispatch(ctx, &event); err != nil {
		if errors.Is(err, domain.ErrMalformedEvent) {
			logger.WarnCtx(ctx, "Dropping malformed event", zap.String("id", event.ID()), zap.Error(err))
			terminate(ctx, msg)
			return nil
		}

		if b.config.MaxDeliver > 0 && delivered >= uint64(b.config.MaxDeliver) {
			return fmt.Errorf("%w: %s failed on delivery %d: %w", ErrRetriesExhausted, event.ID(), delivered, err)
		}

		delay := b.retryDelay(delivered)
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Failed to handle event"),
			zap.String("id", event.ID()),
			zap.Duration("retryIn", delay))
		if err := msg.NakWithDelay(delay); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to NAK message"))
		}
		return nil
	}

	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
	}
	return nil
}

// retryDelay returns the redelivery delay after the given delivery attempt failed
func (b *bridge) retryDelay(delivered uint64) time.Duration {
	backoff := b.config.RetryBackoff
	if delivered == 0 {
		return backoff[0]
	}
	return backoff[min(delivered-1, uint64(len(backoff)-1))]
}

// redeliveryBackoff is the server-side schedule for deliveries whose ack wait expired.
// No step is shorter than the ack wait.
// The server requires fewer steps than MaxDeliver.
func (b *bridge) redeliveryBackoff() []time.Duration {
	steps := len(b.config.RetryBackoff)
	if b.config.MaxDeliver > 0 {
		steps = min(steps, b.config.MaxDeliver-1)
	}
	if steps <= 0 {
		return nil
	}

	backoff := make([]time.Duration, steps)
	for i := range backoff {
		backoff[i] = max(b.config.RetryBackoff[i], b.config.AckWaitTimeout)
	}
	return backoff
}

func terminate(ctx context.Context, msg adapter.Message) {
	if err := msg.Term(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
	}
}

// Close drains the NATS connection
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}

	if err := b.nc.Drain(); err != nil {
		logger.Error(err, zap.String("message", "Failed to drain NATS connection"))
		b.nc.Close()
	}
}
