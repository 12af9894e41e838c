package messaging

import (
	"context"

	"github.com/hackdays-io/toban-indexer/internal/domain"
)

// Publisher defines the interface for publishing events to message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes a chain event to the message broker
	PublishEvent(ctx context.Context, event *domain.ChainEvent) error
	// Close closes the connection
	Close()
}
