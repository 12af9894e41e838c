package dispatcher

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/indexer"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	"github.com/hackdays-io/toban-indexer/internal/registry"
)

const (
	outcomeHandled   = "handled"
	outcomeSkipped   = "skipped"
	outcomeMalformed = "malformed"
	outcomeFailed    = "failed"
)

var (
	// eventsTotal counts dispatched events by name, source kind and outcome
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toban_indexer_events_total",
		Help: "Total dispatched events by event name, source kind and outcome",
	}, []string{"event", "source", "outcome"})

	// handlerDuration tracks handler latency
	handlerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "toban_indexer_handler_duration_seconds",
		Help:    "Handler duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"event"})

	// lastBlock is the block number of the last handled event
	lastBlock = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "toban_indexer_last_handled_block",
		Help: "Block number of the last successfully handled event",
	}, []string{"chain"})
)

// Dispatcher routes a decoded event to the handler of its source
//
//go:generate mockgen -source=dispatcher.go -destination=../mocks/dispatcher.go -package=mocks -mock_names=Dispatcher=MockDispatcher
type Dispatcher interface {
	// Dispatch routes event by (source kind, event name).
	// Events from unknown sources and unrouted pairs are skipped without error.
	// Returns an error wrapping domain.ErrMalformedEvent for structurally invalid events.
	Dispatch(ctx context.Context, event *domain.ChainEvent) error
}

type dispatcher struct {
	registry registry.Registry
	indexer  indexer.Indexer
	clock    adapter.Clock
}

// New creates a dispatcher
func New(reg registry.Registry, idx indexer.Indexer, clock adapter.Clock) Dispatcher {
	return &dispatcher{
		registry: reg,
		indexer:  idx,
		clock:    clock,
	}
}

// Dispatch routes event to its handler
func (d *dispatcher) Dispatch(ctx context.Context, event *domain.ChainEvent) error {
	ctx = logger.WithEvent(ctx, logger.EventInfo{
		Chain:       string(event.Chain),
		Event:       string(event.Name),
		TxHash:      event.TxHash,
		LogIndex:    event.LogIndex,
		BlockNumber: event.BlockNumber,
	})

	kind, ok := d.registry.Lookup(event.ContractAddress)
	if !ok {
		logger.DebugCtx(ctx, "Skipping event from unknown source", zap.String("contract", event.ContractAddress))
		eventsTotal.WithLabelValues(string(event.Name), "unknown", outcomeSkipped).Inc()
		return nil
	}

	if !event.Valid() {
		eventsTotal.WithLabelValues(string(event.Name), string(kind), outcomeMalformed).Inc()
		return fmt.Errorf("%w: %s", domain.ErrMalformedEvent, event.ID())
	}

	handle := d.route(kind, event.Name)
	if handle == nil {
		logger.DebugCtx(ctx, "No handler for event", zap.String("source", string(kind)))
		eventsTotal.WithLabelValues(string(event.Name), string(kind), outcomeSkipped).Inc()
		return nil
	}

	start := d.clock.Now()
	err := handle(ctx, event)
	handlerDuration.WithLabelValues(string(event.Name)).Observe(d.clock.Since(start).Seconds())

	if err != nil {
		eventsTotal.WithLabelValues(string(event.Name), string(kind), outcomeFailed).Inc()
		return err
	}

	eventsTotal.WithLabelValues(string(event.Name), string(kind), outcomeHandled).Inc()
	lastBlock.WithLabelValues(string(event.Chain)).Set(float64(event.BlockNumber))
	return nil
}

type handlerFunc func(ctx context.Context, event *domain.ChainEvent) error

// route returns the handler for (kind, name), or nil when the pair is not indexed
func (d *dispatcher) route(kind registry.SourceKind, name domain.EventName) handlerFunc {
	switch kind {
	case registry.SourceKindBigBang:
		if name == domain.EventExecuted {
			return d.indexer.HandleExecuted
		}
	case registry.SourceKindFractionToken:
		return d.tokenHandler(domain.GlobalScope, name)
	case registry.SourceKindHatsTimeFrameModule, registry.SourceKindHatsHatCreatorModule:
		return d.moduleHandler(name)
	case registry.SourceKindThanksToken:
		switch name {
		case domain.EventTokensMinted:
			return d.indexer.HandleTokensMinted
		case domain.EventTransfer:
			return d.indexer.HandleThanksTransfer
		}
	}
	return nil
}

func (d *dispatcher) tokenHandler(scope domain.Scope, name domain.EventName) handlerFunc {
	switch name {
	case domain.EventInitialMint:
		return func(ctx context.Context, event *domain.ChainEvent) error {
			return d.indexer.HandleInitialMint(ctx, scope, event)
		}
	case domain.EventTransferSingle:
		return func(ctx context.Context, event *domain.ChainEvent) error {
			return d.indexer.HandleTransferSingle(ctx, scope, event)
		}
	}
	return nil
}

// moduleHandler scopes token events to the emitting module
func (d *dispatcher) moduleHandler(name domain.EventName) handlerFunc {
	switch name {
	case domain.EventInitialMint, domain.EventTransferSingle:
		return func(ctx context.Context, event *domain.ChainEvent) error {
			scope := domain.Scope(domain.NormalizeAddress(event.ContractAddress))
			return d.tokenHandler(scope, name)(ctx, event)
		}
	}
	return nil
}
