package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/block"
	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/logger"
)

const (
	// DefaultLogStepSize is the block range of a single eth_getLogs call
	DefaultLogStepSize uint64 = 10000

	filterLogsTimeout = time.Minute
)

// EthereumClient reads Toban logs from an Ethereum node
//
//go:generate mockgen -source=client.go -destination=../../mocks/ethereum_client.go -package=mocks -mock_names=EthereumClient=MockEthereumClient
type EthereumClient interface {
	// ParseEventLog decodes a log and resolves its block timestamp.
	// Returns nil, nil for logs that are not Toban events.
	ParseEventLog(ctx context.Context, vLog types.Log) (*domain.ChainEvent, error)

	// ParseEventLogs decodes a page of logs, resolving the timestamps of their blocks concurrently.
	// Undecodable logs are logged and dropped.
	ParseEventLogs(ctx context.Context, logs []types.Log) ([]*domain.ChainEvent, error)

	// FilterLogs returns the logs matching query between query.FromBlock and query.ToBlock,
	// split into pages small enough for the node
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)

	// SubscribeFilterLogs subscribes to filter logs
	SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)

	// GetLatestBlock returns the latest block number
	GetLatestBlock(ctx context.Context) (uint64, error)

	// Close closes the connection
	Close()
}

type ethereumClient struct {
	client        adapter.EthClient
	decoder       Decoder
	blockProvider block.BlockProvider
	stepSize      uint64
}

func NewClient(client adapter.EthClient, decoder Decoder, blockProvider block.BlockProvider, stepSize uint64) EthereumClient {
	if stepSize == 0 {
		stepSize = DefaultLogStepSize
	}
	return &ethereumClient{
		client:        client,
		decoder:       decoder,
		blockProvider: blockProvider,
		stepSize:      stepSize,
	}
}

// SubscribeFilterLogs subscribes to filter logs
func (c *ethereumClient) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return c.client.SubscribeFilterLogs(ctx, query, ch)
}

// GetLatestBlock returns the latest block number
func (c *ethereumClient) GetLatestBlock(ctx context.Context) (uint64, error) {
	return c.blockProvider.GetLatestBlock(ctx)
}

// FilterLogs handles pagination for eth_getLogs to work around provider result limits
func (c *ethereumClient) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, filterLogsTimeout)
	defer cancel()

	// If blockhash is specified, use it directly (no pagination needed)
	if query.BlockHash != nil {
		return c.client.FilterLogs(timeoutCtx, query)
	}

	if query.FromBlock == nil {
		query.FromBlock = big.NewInt(0)
	}
	if query.ToBlock == nil {
		latest, err := c.blockProvider.GetLatestBlock(timeoutCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to get latest block: %w", err)
		}
		query.ToBlock = new(big.Int).SetUint64(latest)
	}
	if query.FromBlock.Cmp(query.ToBlock) > 0 {
		return nil, nil
	}

	return c.getLogsWithRetry(timeoutCtx, query)
}

// getLogsWithRetry processes the range from query.FromBlock to query.ToBlock in chunks,
// halving the chunk size whenever the node reports too many results
func (c *ethereumClient) getLogsWithRetry(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	currentStepSize := c.stepSize

	var allLogs []types.Log
	currentFrom := new(big.Int).Set(query.FromBlock)

	for currentFrom.Cmp(query.ToBlock) <= 0 {
		currentTo := new(big.Int).Add(currentFrom, new(big.Int).SetUint64(currentStepSize-1))
		if currentTo.Cmp(query.ToBlock) > 0 {
			currentTo.Set(query.ToBlock)
		}

		queryCopy := query
		queryCopy.FromBlock = new(big.Int).Set(currentFrom)
		queryCopy.ToBlock = new(big.Int).Set(currentTo)

		logs, err := c.client.FilterLogs(ctx, queryCopy)
		if err == nil {
			allLogs = append(allLogs, logs...)
			currentFrom.SetUint64(currentTo.Uint64() + 1)
			continue
		}

		if !isTooManyResultsError(err) {
			return nil, fmt.Errorf("failed to get logs for range %d-%d: %w", currentFrom.Uint64(), currentTo.Uint64(), err)
		}
		if currentStepSize == 1 {
			return nil, fmt.Errorf("too many results in block %d: %w", currentFrom.Uint64(), err)
		}

		currentStepSize = currentStepSize / 2

		logger.WarnCtx(ctx, "Too many results, reducing step size",
			zap.Uint64("oldStepSize", currentStepSize*2),
			zap.Uint64("newStepSize", currentStepSize),
			zap.Uint64("fromBlock", currentFrom.Uint64()),
			zap.Uint64("toBlock", currentTo.Uint64()))
	}

	return allLogs, nil
}

// isTooManyResultsError checks if the error is related to too many results
func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "query returned more than 10000 results") ||
		strings.Contains(errStr, "query timeout exceeded") ||
		strings.Contains(errStr, "too many results") ||
		strings.Contains(errStr, "exceeded maximum") ||
		strings.Contains(errStr, "block range is too wide")
}

// ParseEventLog decodes vLog and resolves its block timestamp
func (c *ethereumClient) ParseEventLog(ctx context.Context, vLog types.Log) (*domain.ChainEvent, error) {
	event, err := c.decoder.Decode(vLog)
	if err != nil || event == nil {
		return nil, err
	}

	timestamp, err := c.blockProvider.GetBlockTimestamp(ctx, vLog.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get block timestamp: %w", err)
	}
	event.Timestamp = timestamp

	return event, nil
}

// ParseEventLogs decodes logs in (block, log index) order
func (c *ethereumClient) ParseEventLogs(ctx context.Context, logs []types.Log) ([]*domain.ChainEvent, error) {
	events := make([]*domain.ChainEvent, 0, len(logs))
	blocks := make([]uint64, 0)
	for _, vLog := range logs {
		event, err := c.decoder.Decode(vLog)
		if err != nil {
			if errors.Is(err, domain.ErrMalformedEvent) {
				logger.ErrorCtx(ctx, err, zap.String("message", "Error parsing log"),
					zap.String("txHash", vLog.TxHash.Hex()),
					zap.Uint("logIndex", vLog.Index))
				continue
			}
			return nil, err
		}
		if event == nil {
			continue
		}
		events = append(events, event)
		blocks = append(blocks, event.BlockNumber)
	}

	if len(events) == 0 {
		return events, nil
	}

	timestamps, err := c.blockProvider.GetBlockTimestamps(ctx, blocks)
	if err != nil {
		return nil, fmt.Errorf("failed to get block timestamps: %w", err)
	}
	for _, event := range events {
		event.Timestamp = timestamps[event.BlockNumber]
	}

	slices.SortFunc(events, compareEvents)
	return events, nil
}

// compareEvents orders events by block number then log index
func compareEvents(a, b *domain.ChainEvent) int {
	if a.BlockNumber != b.BlockNumber {
		if a.BlockNumber < b.BlockNumber {
			return -1
		}
		return 1
	}
	switch {
	case a.LogIndex < b.LogIndex:
		return -1
	case a.LogIndex > b.LogIndex:
		return 1
	default:
		return 0
	}
}

// Close closes the connection
func (c *ethereumClient) Close() {
	c.client.Close()
}
