package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	"github.com/hackdays-io/toban-indexer/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string

	// DuplicateWindow is how long the stream remembers message ids
	DuplicateWindow time.Duration
	// MaxAge bounds how long events are retained, zero keeps them forever
	MaxAge time.Duration
}

// SubjectWildcard matches every event subject
const SubjectWildcard = "events.>"

type publisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
	json       adapter.JSON
}

// ConnectionOptions returns the NATS options shared by publishers and consumers
func ConnectionOptions(cfg Config) []nats.Option {
	return []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}
}

// DeclareStream creates the event stream or updates it to match cfg
func DeclareStream(ctx context.Context, js adapter.JetStream, cfg Config) error {
	streamConfig := jetstream.StreamConfig{
		Name:       cfg.StreamName,
		Subjects:   []string{SubjectWildcard},
		Storage:    jetstream.FileStorage,
		Retention:  jetstream.LimitsPolicy,
		Duplicates: cfg.DuplicateWindow,
		MaxAge:     cfg.MaxAge,
	}

	stored, err := js.CreateOrUpdateStream(ctx, streamConfig)
	if err != nil {
		return fmt.Errorf("failed to declare stream %s: %w", cfg.StreamName, err)
	}

	logger.InfoCtx(ctx, "Stream declared",
		zap.String("stream", stored.Name),
		zap.Duration("duplicates", stored.Duplicates))
	return nil
}

// NewPublisher connects to NATS, declares the event stream and returns a publisher
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	nc, js, err := natsJS.Connect(cfg.URL, ConnectionOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	if err := DeclareStream(ctx, js, cfg); err != nil {
		nc.Close()
		return nil, err
	}

	return &publisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
		json:       jsonAdapter,
	}, nil
}

// PublishEvent publishes a chain event to NATS JetStream.
// The event id is used as the message id so the stream drops replays within its duplicate window.
func (p *publisher) PublishEvent(ctx context.Context, event *domain.ChainEvent) error {
	logger.DebugCtx(ctx, "Publishing Nats event", zap.String("id", event.ID()), zap.String("event", string(event.Name)))

	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.js.Publish(ctx, Subject(event), data,
		jetstream.WithMsgID(event.ID()),
		jetstream.WithExpectStream(p.streamName),
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subject builds the NATS subject of an event.
// Format: events.{chain namespace}.{event name}, e.g. events.eip155-8453.TransferSingle
func Subject(event *domain.ChainEvent) string {
	return fmt.Sprintf("events.%s.%s", event.Chain.Namespace(), event.Name)
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
