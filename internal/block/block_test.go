package block_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdays-io/toban-indexer/internal/block"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	"github.com/hackdays-io/toban-indexer/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testBlockProviderMocks contains all the mocks needed for testing the block provider
type testBlockProviderMocks struct {
	ctrl     *gomock.Controller
	fetcher  *mocks.MockBlockFetcher
	clock    *mocks.MockClock
	provider block.BlockProvider
}

// setupTest creates all the mocks and a block provider for testing
func setupTest(t *testing.T, cfg block.Config) *testBlockProviderMocks {
	ctrl := gomock.NewController(t)

	mockFetcher := mocks.NewMockBlockFetcher(ctrl)
	mockClock := mocks.NewMockClock(ctrl)

	return &testBlockProviderMocks{
		ctrl:     ctrl,
		fetcher:  mockFetcher,
		clock:    mockClock,
		provider: block.NewBlockProvider(mockFetcher, cfg, mockClock),
	}
}

// tearDownTest cleans up the test mocks
func tearDownTest(tm *testBlockProviderMocks) {
	tm.ctrl.Finish()
}

var defaultConfig = block.Config{
	TTL:              10 * time.Second,
	StaleWindow:      2 * time.Minute,
	FetchConcurrency: 4,
}

func TestBlockProvider_GetLatestBlock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	networkErr := errors.New("network error")

	tests := []struct {
		name          string
		secondAt      time.Duration
		secondFetch   func(*mocks.MockBlockFetcher)
		expectedBlock uint64
		expectedErr   string
	}{
		{
			name:          "uses cache within TTL",
			secondAt:      5 * time.Second,
			expectedBlock: 1000,
		},
		{
			name:     "refreshes after TTL",
			secondAt: 15 * time.Second,
			secondFetch: func(f *mocks.MockBlockFetcher) {
				f.EXPECT().FetchLatestBlock(gomock.Any()).Return(uint64(1100), nil)
			},
			expectedBlock: 1100,
		},
		{
			name:     "falls back to stale value within stale window",
			secondAt: 30 * time.Second,
			secondFetch: func(f *mocks.MockBlockFetcher) {
				f.EXPECT().FetchLatestBlock(gomock.Any()).Return(uint64(0), networkErr)
			},
			expectedBlock: 1000,
		},
		{
			name:     "fails beyond stale window",
			secondAt: 5 * time.Minute,
			secondFetch: func(f *mocks.MockBlockFetcher) {
				f.EXPECT().FetchLatestBlock(gomock.Any()).Return(uint64(0), networkErr)
			},
			expectedErr: "failed to fetch latest block and no valid cache available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTest(t, defaultConfig)
			defer tearDownTest(tm)
			ctx := context.Background()

			tm.clock.EXPECT().Now().Return(now)
			tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)

			first, err := tm.provider.GetLatestBlock(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint64(1000), first)

			tm.clock.EXPECT().Now().Return(now.Add(tt.secondAt))
			if tt.secondFetch != nil {
				tt.secondFetch(tm.fetcher)
			}

			second, err := tm.provider.GetLatestBlock(ctx)
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				assert.ErrorIs(t, err, networkErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedBlock, second)
		})
	}
}

func TestBlockProvider_GetLatestBlock_NoCacheAndFetchFails(t *testing.T) {
	tm := setupTest(t, defaultConfig)
	defer tearDownTest(tm)

	ctx := context.Background()
	tm.clock.EXPECT().Now().Return(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(0), errors.New("network error"))

	blockNum, err := tm.provider.GetLatestBlock(ctx)
	assert.Error(t, err)
	assert.Equal(t, uint64(0), blockNum)
}

func TestBlockProvider_GetBlockTimestamp_CachesForever(t *testing.T) {
	tm := setupTest(t, defaultConfig)
	defer tearDownTest(tm)

	ctx := context.Background()
	blockTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	// fetched once, served from cache afterwards
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1000)).Return(blockTime, nil).Times(1)

	for range 3 {
		ts, err := tm.provider.GetBlockTimestamp(ctx, 1000)
		require.NoError(t, err)
		assert.Equal(t, blockTime, ts)
	}
}

func TestBlockProvider_GetBlockTimestamp_FetchError(t *testing.T) {
	tm := setupTest(t, defaultConfig)
	defer tearDownTest(tm)

	ctx := context.Background()
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1000)).Return(time.Time{}, errors.New("rpc down"))

	_, err := tm.provider.GetBlockTimestamp(ctx, 1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch block timestamp for block 1000")
}

func TestBlockProvider_GetBlockTimestamp_EvictsLowestBlocks(t *testing.T) {
	cfg := defaultConfig
	cfg.MaxCachedTimestamps = 2
	tm := setupTest(t, cfg)
	defer tearDownTest(tm)

	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1)).Return(base, nil).Times(2)
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(2)).Return(base.Add(time.Second), nil).Times(1)
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(3)).Return(base.Add(2*time.Second), nil).Times(1)

	for _, n := range []uint64{1, 2, 3} {
		_, err := tm.provider.GetBlockTimestamp(ctx, n)
		require.NoError(t, err)
	}

	// 2 and 3 are still cached, 1 was evicted
	_, err := tm.provider.GetBlockTimestamp(ctx, 3)
	require.NoError(t, err)
	ts, err := tm.provider.GetBlockTimestamp(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, base, ts)
}

func TestBlockProvider_GetBlockTimestamps(t *testing.T) {
	tm := setupTest(t, defaultConfig)
	defer tearDownTest(tm)

	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.fetcher.EXPECT().FetchBlockTimestamp(gomock.Any(), uint64(10)).Return(base, nil).Times(1)
	tm.fetcher.EXPECT().FetchBlockTimestamp(gomock.Any(), uint64(11)).Return(base.Add(2*time.Second), nil).Times(1)
	tm.fetcher.EXPECT().FetchBlockTimestamp(gomock.Any(), uint64(12)).Return(base.Add(4*time.Second), nil).Times(1)

	// block 10 is warmed up first; duplicates are fetched once
	_, err := tm.provider.GetBlockTimestamp(ctx, 10)
	require.NoError(t, err)

	result, err := tm.provider.GetBlockTimestamps(ctx, []uint64{10, 11, 11, 12, 12})
	require.NoError(t, err)
	assert.Equal(t, map[uint64]time.Time{
		10: base,
		11: base.Add(2 * time.Second),
		12: base.Add(4 * time.Second),
	}, result)
}

func TestBlockProvider_GetBlockTimestamps_Error(t *testing.T) {
	tm := setupTest(t, defaultConfig)
	defer tearDownTest(tm)

	ctx := context.Background()
	tm.fetcher.EXPECT().FetchBlockTimestamp(gomock.Any(), uint64(10)).Return(time.Now(), nil).AnyTimes()
	tm.fetcher.EXPECT().FetchBlockTimestamp(gomock.Any(), uint64(11)).Return(time.Time{}, errors.New("rpc down"))

	result, err := tm.provider.GetBlockTimestamps(ctx, []uint64{10, 11})
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestBlockProvider_GetBlockTimestamp_ConcurrentAccess(t *testing.T) {
	tm := setupTest(t, defaultConfig)
	defer tearDownTest(tm)

	ctx := context.Background()
	blockTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	// AnyTimes() allows multiple concurrent misses
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1000)).Return(blockTime, nil).AnyTimes()

	done := make(chan bool, 10)
	for range 10 {
		go func() {
			timestamp, err := tm.provider.GetBlockTimestamp(ctx, 1000)
			assert.NoError(t, err)
			assert.Equal(t, blockTime, timestamp)
			done <- true
		}()
	}

	for range 10 {
		<-done
	}
}
