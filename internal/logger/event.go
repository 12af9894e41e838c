package logger

import (
	"context"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

type eventKey struct{}

// EventInfo identifies the chain log a unit of work is processing
type EventInfo struct {
	Chain       string
	Event       string
	TxHash      string
	LogIndex    uint
	BlockNumber uint64
}

func (i EventInfo) fields() []zap.Field {
	return []zap.Field{
		zap.String("chain", i.Chain),
		zap.String("event", i.Event),
		zap.String("txHash", i.TxHash),
		zap.Uint("logIndex", i.LogIndex),
		zap.Uint64("blockNumber", i.BlockNumber),
	}
}

// WithEvent returns a context whose loggers carry info as fields.
// When sentry is configured the context also gets its own hub tagged with the chain and event name.
func WithEvent(ctx context.Context, info EventInfo) context.Context {
	if sentryClient != nil {
		hub := sentry.NewHub(sentryClient, sentry.NewScope())
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("chain", info.Chain)
			scope.SetTag("event", info.Event)
			scope.SetContext("log", sentry.Context{
				"tx_hash":      info.TxHash,
				"log_index":    info.LogIndex,
				"block_number": info.BlockNumber,
			})
		})
		ctx = sentry.SetHubOnContext(ctx, hub)
	}
	return context.WithValue(ctx, eventKey{}, info)
}

// EventFromContext returns the event info attached by WithEvent
func EventFromContext(ctx context.Context) (EventInfo, bool) {
	if ctx == nil {
		return EventInfo{}, false
	}
	info, ok := ctx.Value(eventKey{}).(EventInfo)
	return info, ok
}
