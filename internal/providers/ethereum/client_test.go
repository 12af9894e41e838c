package ethereum_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/mocks"
	"github.com/hackdays-io/toban-indexer/internal/providers/ethereum"
)

// blockRange matches a FilterQuery by its block range
type blockRange struct {
	from, to uint64
}

func (r blockRange) Matches(x interface{}) bool {
	q, ok := x.(goethereum.FilterQuery)
	if !ok || q.FromBlock == nil || q.ToBlock == nil {
		return false
	}
	return q.FromBlock.Uint64() == r.from && q.ToBlock.Uint64() == r.to
}

func (r blockRange) String() string {
	return fmt.Sprintf("blocks %d-%d", r.from, r.to)
}

func query(from, to uint64) goethereum.FilterQuery {
	return goethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
	}
}

type testClientMocks struct {
	ctrl          *gomock.Controller
	ethClient     *mocks.MockEthClient
	blockProvider *mocks.MockBlockProvider
	client        ethereum.EthereumClient
}

func setupTestClient(t *testing.T, stepSize uint64) *testClientMocks {
	ctrl := gomock.NewController(t)
	ethClient := mocks.NewMockEthClient(ctrl)
	blockProvider := mocks.NewMockBlockProvider(ctrl)

	return &testClientMocks{
		ctrl:          ctrl,
		ethClient:     ethClient,
		blockProvider: blockProvider,
		client:        ethereum.NewClient(ethClient, newDecoder(t), blockProvider, stepSize),
	}
}

func TestClient_FilterLogs_Paginates(t *testing.T) {
	tm := setupTestClient(t, 10)
	defer tm.ctrl.Finish()

	gomock.InOrder(
		tm.ethClient.EXPECT().FilterLogs(gomock.Any(), blockRange{0, 9}).Return([]types.Log{{BlockNumber: 3}}, nil),
		tm.ethClient.EXPECT().FilterLogs(gomock.Any(), blockRange{10, 19}).Return(nil, nil),
		tm.ethClient.EXPECT().FilterLogs(gomock.Any(), blockRange{20, 24}).Return([]types.Log{{BlockNumber: 24}}, nil),
	)

	logs, err := tm.client.FilterLogs(context.Background(), query(0, 24))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, uint64(3), logs[0].BlockNumber)
	assert.Equal(t, uint64(24), logs[1].BlockNumber)
}

func TestClient_FilterLogs_HalvesStepOnTooManyResults(t *testing.T) {
	tm := setupTestClient(t, 10)
	defer tm.ctrl.Finish()

	tooMany := errors.New("query returned more than 10000 results")
	gomock.InOrder(
		tm.ethClient.EXPECT().FilterLogs(gomock.Any(), blockRange{0, 9}).Return(nil, tooMany),
		tm.ethClient.EXPECT().FilterLogs(gomock.Any(), blockRange{0, 4}).Return([]types.Log{{BlockNumber: 1}}, nil),
		tm.ethClient.EXPECT().FilterLogs(gomock.Any(), blockRange{5, 9}).Return([]types.Log{{BlockNumber: 6}}, nil),
		tm.ethClient.EXPECT().FilterLogs(gomock.Any(), blockRange{10, 12}).Return(nil, nil),
	)

	logs, err := tm.client.FilterLogs(context.Background(), query(0, 12))
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestClient_FilterLogs_GivesUpOnSingleBlock(t *testing.T) {
	tm := setupTestClient(t, 1)
	defer tm.ctrl.Finish()

	tm.ethClient.EXPECT().FilterLogs(gomock.Any(), blockRange{5, 5}).Return(nil, errors.New("too many results"))

	_, err := tm.client.FilterLogs(context.Background(), query(5, 5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many results in block 5")
}

func TestClient_FilterLogs_PropagatesOtherErrors(t *testing.T) {
	tm := setupTestClient(t, 10)
	defer tm.ctrl.Finish()

	rpcErr := errors.New("connection reset")
	tm.ethClient.EXPECT().FilterLogs(gomock.Any(), blockRange{0, 9}).Return(nil, rpcErr)

	_, err := tm.client.FilterLogs(context.Background(), query(0, 20))
	require.Error(t, err)
	assert.ErrorIs(t, err, rpcErr)
}

func TestClient_FilterLogs_DefaultsToLatestBlock(t *testing.T) {
	tm := setupTestClient(t, 100)
	defer tm.ctrl.Finish()

	tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(50), nil)
	tm.ethClient.EXPECT().FilterLogs(gomock.Any(), blockRange{40, 50}).Return(nil, nil)

	_, err := tm.client.FilterLogs(context.Background(), goethereum.FilterQuery{FromBlock: big.NewInt(40)})
	require.NoError(t, err)
}

func TestClient_FilterLogs_EmptyRange(t *testing.T) {
	tm := setupTestClient(t, 100)
	defer tm.ctrl.Finish()

	logs, err := tm.client.FilterLogs(context.Background(), query(10, 9))
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func tokensMintedLog(t *testing.T, d ethereum.Decoder, blockNumber uint64, index uint, amount int64) types.Log {
	return types.Log{
		Address:     contractAddr,
		TxHash:      txHash,
		BlockHash:   blockHash,
		BlockNumber: blockNumber,
		Index:       index,
		Topics:      []common.Hash{d.Topic(domain.EventTokensMinted), addressTopic(wearerAddr)},
		Data:        pack(t, []string{"uint256"}, big.NewInt(amount)),
	}
}

func TestClient_ParseEventLog(t *testing.T) {
	tm := setupTestClient(t, 0)
	defer tm.ctrl.Finish()

	d := newDecoder(t)
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tm.blockProvider.EXPECT().GetBlockTimestamp(gomock.Any(), uint64(100)).Return(ts, nil)

	event, err := tm.client.ParseEventLog(context.Background(), tokensMintedLog(t, d, 100, 0, 5))
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, ts, event.Timestamp)
	assert.Equal(t, "5", event.TokensMinted.Amount)

	// unknown logs never reach the block provider
	event, err = tm.client.ParseEventLog(context.Background(), types.Log{Topics: []common.Hash{{0x01}}})
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestClient_ParseEventLogs(t *testing.T) {
	tm := setupTestClient(t, 0)
	defer tm.ctrl.Finish()

	d := newDecoder(t)
	t100 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	t101 := t100.Add(2 * time.Second)

	malformed := tokensMintedLog(t, d, 100, 9, 1)
	malformed.Data = nil

	logs := []types.Log{
		tokensMintedLog(t, d, 101, 0, 3),
		tokensMintedLog(t, d, 100, 2, 2),
		{Topics: []common.Hash{{0x01}}, BlockNumber: 99},
		malformed,
		tokensMintedLog(t, d, 100, 1, 1),
	}

	tm.blockProvider.EXPECT().
		GetBlockTimestamps(gomock.Any(), []uint64{101, 100, 100}).
		Return(map[uint64]time.Time{100: t100, 101: t101}, nil)

	events, err := tm.client.ParseEventLogs(context.Background(), logs)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "1", events[0].TokensMinted.Amount)
	assert.Equal(t, "2", events[1].TokensMinted.Amount)
	assert.Equal(t, "3", events[2].TokensMinted.Amount)
	assert.Equal(t, t100, events[0].Timestamp)
	assert.Equal(t, t101, events[2].Timestamp)
}

func TestClient_ParseEventLogs_TimestampError(t *testing.T) {
	tm := setupTestClient(t, 0)
	defer tm.ctrl.Finish()

	d := newDecoder(t)
	tm.blockProvider.EXPECT().GetBlockTimestamps(gomock.Any(), gomock.Any()).Return(nil, errors.New("rpc down"))

	_, err := tm.client.ParseEventLogs(context.Background(), []types.Log{tokensMintedLog(t, d, 1, 0, 1)})
	require.Error(t, err)
}

func TestBlockFetcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ethClient := mocks.NewMockEthClient(ctrl)
	clock := mocks.NewMockClock(ctrl)
	fetcher := ethereum.NewEthereumBlockFetcher(ethClient, clock)
	ctx := context.Background()

	ethClient.EXPECT().HeaderByNumber(ctx, nil).Return(&types.Header{Number: big.NewInt(1234)}, nil)
	latest, err := fetcher.FetchLatestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), latest)

	ethClient.EXPECT().HeaderByNumber(ctx, big.NewInt(1000)).Return(&types.Header{Number: big.NewInt(1000), Time: 1714521600}, nil)
	clock.EXPECT().BlockTime(uint64(1714521600)).Return(time.Unix(1714521600, 0).UTC())
	ts, err := fetcher.FetchBlockTimestamp(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), ts)

	ethClient.EXPECT().HeaderByNumber(ctx, big.NewInt(1001)).Return(nil, errors.New("not found"))
	_, err = fetcher.FetchBlockTimestamp(ctx, 1001)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get block 1001")
}
