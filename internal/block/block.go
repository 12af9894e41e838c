package block

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/logger"
)

// BlockInfo represents cached block information
type BlockInfo struct {
	Number    uint64
	Timestamp time.Time
}

// BlockProvider provides cached access to the chain head and to block timestamps.
// Decoded logs carry only a block number, so every event needs the timestamp of
// its block; a catch-up page typically touches many logs in few blocks.
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=BlockProvider=MockBlockProvider
type BlockProvider interface {
	// GetLatestBlock returns the latest block number, potentially from cache
	GetLatestBlock(ctx context.Context) (uint64, error)

	// GetBlockTimestamp returns the timestamp for a given block number, potentially from cache
	GetBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)

	// GetBlockTimestamps returns the timestamps of several blocks, fetching the
	// uncached ones concurrently
	GetBlockTimestamps(ctx context.Context, blockNumbers []uint64) (map[uint64]time.Time, error)
}

// BlockFetcher is the interface for fetching block information from the blockchain
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=BlockFetcher=MockBlockFetcher
type BlockFetcher interface {
	// FetchLatestBlock fetches the latest block from the blockchain
	FetchLatestBlock(ctx context.Context) (uint64, error)

	// FetchBlockTimestamp fetches the timestamp for a given block number
	FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Config holds configuration for the BlockProvider
type Config struct {
	// TTL is how long to cache the latest block number
	TTL time.Duration

	// StaleWindow is how long to use a stale latest block number if fetching fails
	StaleWindow time.Duration

	// MaxCachedTimestamps bounds the timestamp cache; the lowest block numbers are evicted first.
	// Zero means unbounded.
	MaxCachedTimestamps int

	// FetchConcurrency is the number of concurrent timestamp fetches in GetBlockTimestamps
	FetchConcurrency int
}

// blockProvider implements BlockProvider with TTL-based caching
type blockProvider struct {
	fetcher BlockFetcher
	config  Config
	clock   adapter.Clock

	mu              sync.RWMutex
	blockInfo       *BlockInfo
	blockTimestamps map[uint64]time.Time
}

// NewBlockProvider creates a new BlockProvider with caching
func NewBlockProvider(fetcher BlockFetcher, config Config, clock adapter.Clock) BlockProvider {
	if config.FetchConcurrency <= 0 {
		config.FetchConcurrency = 1
	}
	return &blockProvider{
		fetcher:         fetcher,
		config:          config,
		clock:           clock,
		blockTimestamps: make(map[uint64]time.Time),
	}
}

// GetLatestBlock returns the latest block number, using cache if valid
func (p *blockProvider) GetLatestBlock(ctx context.Context) (uint64, error) {
	p.mu.RLock()
	cached := p.blockInfo
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.Timestamp) < p.config.TTL {
		logger.DebugCtx(ctx, "Using cached block number", zap.Uint64("block_number", cached.Number))
		return cached.Number, nil
	}

	blockNumber, err := p.fetcher.FetchLatestBlock(ctx)
	if err != nil {
		if cached != nil && now.Sub(cached.Timestamp) < p.config.StaleWindow {
			logger.WarnCtx(ctx, "Using stale block number", zap.Uint64("block_number", cached.Number), zap.Error(err))
			return cached.Number, nil
		}
		return 0, fmt.Errorf("failed to fetch latest block and no valid cache available: %w", err)
	}

	p.mu.Lock()
	p.blockInfo = &BlockInfo{
		Number:    blockNumber,
		Timestamp: now,
	}
	p.mu.Unlock()

	return blockNumber, nil
}

// GetBlockTimestamp returns the timestamp for a given block number.
// Block timestamps never change once a block is final, so hits never expire.
func (p *blockProvider) GetBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	p.mu.RLock()
	cached, ok := p.blockTimestamps[blockNumber]
	p.mu.RUnlock()

	if ok {
		return cached, nil
	}

	logger.DebugCtx(ctx, "Fetching block timestamp", zap.Uint64("block_number", blockNumber))
	timestamp, err := p.fetcher.FetchBlockTimestamp(ctx, blockNumber)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch block timestamp for block %d: %w", blockNumber, err)
	}

	p.store(blockNumber, timestamp)
	return timestamp, nil
}

// GetBlockTimestamps returns the timestamps of blockNumbers
func (p *blockProvider) GetBlockTimestamps(ctx context.Context, blockNumbers []uint64) (map[uint64]time.Time, error) {
	result := make(map[uint64]time.Time, len(blockNumbers))
	var missing []uint64

	p.mu.RLock()
	for _, n := range blockNumbers {
		if ts, ok := p.blockTimestamps[n]; ok {
			result[n] = ts
		} else if !slices.Contains(missing, n) {
			missing = append(missing, n)
		}
	}
	p.mu.RUnlock()

	if len(missing) == 0 {
		return result, nil
	}

	pool := pond.NewPool(p.config.FetchConcurrency, pond.WithContext(ctx))
	defer pool.StopAndWait()

	var mu sync.Mutex
	group := pool.NewGroup()
	for _, n := range missing {
		group.SubmitErr(func() error {
			ts, err := p.GetBlockTimestamp(ctx, n)
			if err != nil {
				return err
			}
			mu.Lock()
			result[n] = ts
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// store caches a timestamp, evicting the oldest blocks beyond MaxCachedTimestamps
func (p *blockProvider) store(blockNumber uint64, timestamp time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.blockTimestamps[blockNumber] = timestamp

	limit := p.config.MaxCachedTimestamps
	if limit <= 0 || len(p.blockTimestamps) <= limit {
		return
	}

	blocks := make([]uint64, 0, len(p.blockTimestamps))
	for n := range p.blockTimestamps {
		blocks = append(blocks, n)
	}
	slices.Sort(blocks)
	for _, n := range blocks[:len(blocks)-limit] {
		delete(p.blockTimestamps, n)
	}
}
