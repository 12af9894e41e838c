package ratelimit

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
)

type ethClient struct {
	adapter.EthClient
	limiter Limiter
}

// NewEthClient throttles the request/response RPC calls of client through limiter.
// Log subscriptions are long-lived and are not throttled.
func NewEthClient(client adapter.EthClient, limiter Limiter) adapter.EthClient {
	return &ethClient{
		EthClient: client,
		limiter:   limiter,
	}
}

func (c *ethClient) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.EthClient.FilterLogs(ctx, query)
}

func (c *ethClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.EthClient.HeaderByNumber(ctx, number)
}
