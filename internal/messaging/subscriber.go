package messaging

import (
	"context"

	"github.com/hackdays-io/toban-indexer/internal/domain"
)

// EventHandler is called for every decoded chain event, in (block, log index) order
type EventHandler func(event *domain.ChainEvent) error

// Subscriber defines the interface for subscribing to chain events
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// SubscribeEvents delivers every event from fromBlock onwards to handler.
	// It blocks until ctx is canceled, the handler fails, or the connection cannot be re-established.
	SubscribeEvents(ctx context.Context, fromBlock uint64, handler EventHandler) error

	// GetLatestBlock returns the latest block number
	GetLatestBlock(ctx context.Context) (uint64, error)

	// Close closes the connection and cleans up resources
	Close()
}
