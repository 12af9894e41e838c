package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	"github.com/hackdays-io/toban-indexer/internal/messaging"
	"github.com/hackdays-io/toban-indexer/internal/registry"
)

const (
	// DefaultCatchUpPageSize is the number of blocks replayed per catch-up page
	DefaultCatchUpPageSize uint64 = 2000

	// discoveryPageSize is the block range of one factory scan request
	discoveryPageSize uint64 = 100000

	// maxAddressesPerQuery bounds the address list of a single log filter
	maxAddressesPerQuery = 500

	logBufferSize = 256
)

// Config holds the configuration for Ethereum subscription
type Config struct {
	WebSocketURL string       // WebSocket URL (e.g., wss://base-mainnet.g.alchemy.com/v2/KEY)
	ChainID      domain.Chain // e.g., "eip155:8453" for Base mainnet

	// CatchUpPageSize is the number of blocks replayed per page before going live
	CatchUpPageSize uint64

	// ReconnectMaxElapsed bounds the total reconnect time; zero retries forever
	ReconnectMaxElapsed time.Duration
}

type ethSubscriber struct {
	client  EthereumClient
	decoder Decoder
	sources registry.Registry
	config  Config
}

var (
	// errHandler marks handler failures, which end the subscription instead of reconnecting
	errHandler = errors.New("event handler failed")

	// errSourcesChanged ends a stream whose filters miss newly created modules
	errSourcesChanged = errors.New("event sources changed")
)

// NewSubscriber creates a new Ethereum event subscriber.
// Logs are filtered by the addresses in sources, and modules created by a
// workspace factory are added to sources as their Executed events are seen.
func NewSubscriber(cfg Config, ethereumClient EthereumClient, decoder Decoder, sources registry.Registry) messaging.Subscriber {
	if cfg.CatchUpPageSize == 0 {
		cfg.CatchUpPageSize = DefaultCatchUpPageSize
	}
	return &ethSubscriber{
		client:  ethereumClient,
		decoder: decoder,
		sources: sources,
		config:  cfg,
	}
}

// addresses returns the known sources accepted by keep, or every source when keep is nil
func (s *ethSubscriber) addresses(keep func(registry.Source) bool) []common.Address {
	var addresses []common.Address
	for _, source := range s.sources.Sources() {
		if keep == nil || keep(source) {
			addresses = append(addresses, common.HexToAddress(source.Address))
		}
	}
	return addresses
}

// queries returns the log filters for every Toban event emitted by addresses
func (s *ethSubscriber) queries(addresses []common.Address) []ethereum.FilterQuery {
	topics := [][]common.Hash{{
		s.decoder.Topic(domain.EventExecuted),
		s.decoder.Topic(domain.EventInitialMint),
		s.decoder.Topic(domain.EventTransferSingle),
		s.decoder.Topic(domain.EventTokensMinted),
		s.decoder.Topic(domain.EventTransfer),
	}}

	var queries []ethereum.FilterQuery
	for chunk := range slices.Chunk(addresses, maxAddressesPerQuery) {
		queries = append(queries, ethereum.FilterQuery{
			Addresses: chunk,
			Topics:    topics,
		})
	}
	return queries
}

// trackModules adds the modules created by a factory Executed event to the sources
// and returns the addresses that were not known yet
func (s *ethSubscriber) trackModules(event *domain.ChainEvent) []common.Address {
	if event.Name != domain.EventExecuted || event.Executed == nil {
		return nil
	}
	if kind, ok := s.sources.Lookup(event.ContractAddress); !ok || kind != registry.SourceKindBigBang {
		return nil
	}

	var added []common.Address
	for _, m := range []struct {
		address string
		kind    registry.SourceKind
	}{
		{event.Executed.HatsTimeFrameModule, registry.SourceKindHatsTimeFrameModule},
		{event.Executed.HatsHatCreatorModule, registry.SourceKindHatsHatCreatorModule},
	} {
		if !common.IsHexAddress(m.address) {
			continue
		}
		if _, ok := s.sources.Lookup(m.address); ok {
			continue
		}
		s.sources.Track(m.address, m.kind)
		added = append(added, common.HexToAddress(m.address))
	}
	return added
}

// discoverModules tracks the modules of every workspace created before fromBlock,
// so that a replay from a saved cursor also covers their events
func (s *ethSubscriber) discoverModules(ctx context.Context, fromBlock uint64) error {
	factories := s.addresses(func(source registry.Source) bool {
		return source.Kind == registry.SourceKindBigBang
	})
	start := s.sources.StartBlock()
	if len(factories) == 0 || fromBlock <= start {
		return nil
	}

	discovered := 0
	for from := start; from < fromBlock; from += discoveryPageSize {
		to := min(from+discoveryPageSize-1, fromBlock-1)

		logs, err := s.client.FilterLogs(ctx, ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(from),
			ToBlock:   new(big.Int).SetUint64(to),
			Addresses: factories,
			Topics:    [][]common.Hash{{s.decoder.Topic(domain.EventExecuted)}},
		})
		if err != nil {
			return fmt.Errorf("failed to scan workspace factories: %w", err)
		}

		for _, vLog := range logs {
			event, err := s.decoder.Decode(vLog)
			if err != nil {
				if errors.Is(err, domain.ErrMalformedEvent) {
					logger.ErrorCtx(ctx, err, zap.String("message", "Error parsing factory log"))
					continue
				}
				return err
			}
			if event != nil {
				discovered += len(s.trackModules(event))
			}
		}
	}

	logger.InfoCtx(ctx, "Discovered workspace modules",
		zap.Uint64("from_block", start),
		zap.Uint64("to_block", fromBlock-1),
		zap.Int("modules", discovered))
	return nil
}

// SubscribeEvents replays history from fromBlock, then follows new logs.
// A dropped connection is re-established with exponential backoff, resuming
// from the block of the last delivered event.
func (s *ethSubscriber) SubscribeEvents(ctx context.Context, fromBlock uint64, handler messaging.EventHandler) error {
	if len(s.sources.Sources()) == 0 {
		return fmt.Errorf("%w: no data sources configured", domain.ErrSubscriptionFailed)
	}
	if err := s.discoverModules(ctx, fromBlock); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSubscriptionFailed, err)
	}

	next := fromBlock

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = time.Minute
	b.MaxElapsedTime = s.config.ReconnectMaxElapsed

	operation := func() error {
		err := s.stream(ctx, &next, handler)
		for errors.Is(err, errSourcesChanged) {
			logger.InfoCtx(ctx, "New workspace modules, resubscribing",
				zap.Uint64("resume_block", next),
				zap.Int("sources", len(s.sources.Sources())))
			err = s.stream(ctx, &next, handler)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if errors.Is(err, errHandler) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, d time.Duration) {
		logger.WarnCtx(ctx, "Ethereum subscription dropped, reconnecting",
			zap.Error(err),
			zap.Uint64("resume_block", next),
			zap.Duration("next_retry_in", d))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrSubscriptionFailed, err)
	}
	return nil
}

// stream subscribes to live logs, replays [*next, head] and then follows the live feed.
// The live subscription is opened first so that no block falls between the two.
// It returns errSourcesChanged once a new module is tracked, after which the
// caller resubscribes from the block that created it.
func (s *ethSubscriber) stream(ctx context.Context, next *uint64, handler messaging.EventHandler) error {
	addresses := s.addresses(nil)
	queries := s.queries(addresses)

	logs := make(chan types.Log, logBufferSize)
	errs := make(chan error, len(queries))

	for _, query := range queries {
		sub, err := s.client.SubscribeFilterLogs(ctx, query, logs)
		if err != nil {
			return fmt.Errorf("failed to subscribe to filter logs: %w", err)
		}
		defer sub.Unsubscribe()

		go func() {
			if err, ok := <-sub.Err(); ok && err != nil {
				errs <- err
			}
		}()
	}
	defer logger.InfoCtx(ctx, "Unsubscribed from ethereum event logs")

	if err := s.catchUp(ctx, next, handler); err != nil {
		return err
	}
	if len(s.sources.Sources()) != len(addresses) {
		return errSourcesChanged
	}

	logger.InfoCtx(ctx, "Following live ethereum event logs",
		zap.Uint64("from_block", *next),
		zap.Int("sources", len(addresses)))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errs:
			return fmt.Errorf("subscription error: %w", err)
		case vLog := <-logs:
			if vLog.BlockNumber < *next {
				continue
			}

			event, err := s.client.ParseEventLog(ctx, vLog)
			if err != nil {
				if errors.Is(err, domain.ErrMalformedEvent) {
					logger.ErrorCtx(ctx, err, zap.String("message", "Error parsing log"))
					continue
				}
				return err
			}
			if event == nil {
				continue
			}

			if err := handler(event); err != nil {
				return fmt.Errorf("%w: %w", errHandler, err)
			}
			*next = event.BlockNumber

			if len(s.trackModules(event)) > 0 {
				return errSourcesChanged
			}
		}
	}
}

// catchUp replays every page between *next and the current head.
// A page that creates modules is extended with their logs from the creating block on.
func (s *ethSubscriber) catchUp(ctx context.Context, next *uint64, handler messaging.EventHandler) error {
	head, err := s.client.GetLatestBlock(ctx)
	if err != nil {
		return fmt.Errorf("failed to get latest block: %w", err)
	}

	for from := *next; from <= head; from += s.config.CatchUpPageSize {
		to := min(from+s.config.CatchUpPageSize-1, head)

		events, err := s.fetchEvents(ctx, s.addresses(nil), from, to)
		if err != nil {
			return err
		}

		for pending := events; len(pending) > 0; {
			var added []common.Address
			first := to
			for _, event := range pending {
				if modules := s.trackModules(event); len(modules) > 0 {
					added = append(added, modules...)
					first = min(first, event.BlockNumber)
				}
			}
			if len(added) == 0 {
				break
			}

			pending, err = s.fetchEvents(ctx, added, first, to)
			if err != nil {
				return err
			}
			events = append(events, pending...)
		}
		slices.SortFunc(events, compareEvents)

		logger.DebugCtx(ctx, "Replaying ethereum event logs",
			zap.Uint64("from_block", from),
			zap.Uint64("to_block", to),
			zap.Int("events", len(events)))

		for _, event := range events {
			if err := handler(event); err != nil {
				return fmt.Errorf("%w: %w", errHandler, err)
			}
		}
		*next = to + 1
	}

	return nil
}

// fetchEvents returns the decoded events emitted by addresses in [from, to]
func (s *ethSubscriber) fetchEvents(ctx context.Context, addresses []common.Address, from, to uint64) ([]*domain.ChainEvent, error) {
	var logs []types.Log
	for _, query := range s.queries(addresses) {
		query.FromBlock = new(big.Int).SetUint64(from)
		query.ToBlock = new(big.Int).SetUint64(to)

		page, err := s.client.FilterLogs(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to filter logs: %w", err)
		}
		logs = append(logs, page...)
	}

	return s.client.ParseEventLogs(ctx, logs)
}

// GetLatestBlock returns the latest block number
func (s *ethSubscriber) GetLatestBlock(ctx context.Context) (uint64, error) {
	return s.client.GetLatestBlock(ctx)
}

// Close closes the connection
func (s *ethSubscriber) Close() {
	if s.client == nil {
		return
	}

	s.client.Close()
	logger.Info("Ethereum WebSocket connection closed")
}
