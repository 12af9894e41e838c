package ratelimit_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdays-io/toban-indexer/internal/mocks"
	"github.com/hackdays-io/toban-indexer/internal/ratelimit"
)

func TestEthClient_ThrottlesRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := mocks.NewMockEthClient(ctrl)
	limiter := mocks.NewMockRateLimiter(ctrl)
	client := ratelimit.NewEthClient(inner, limiter)

	ctx := context.Background()
	query := ethereum.FilterQuery{FromBlock: big.NewInt(1), ToBlock: big.NewInt(10)}
	header := &types.Header{Number: big.NewInt(10)}

	gomock.InOrder(
		limiter.EXPECT().Wait(ctx).Return(nil),
		inner.EXPECT().FilterLogs(ctx, query).Return([]types.Log{{Index: 3}}, nil),
		limiter.EXPECT().Wait(ctx).Return(nil),
		inner.EXPECT().HeaderByNumber(ctx, nil).Return(header, nil),
	)

	logs, err := client.FilterLogs(ctx, query)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	got, err := client.HeaderByNumber(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, header, got)
}

func TestEthClient_LimiterError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := mocks.NewMockEthClient(ctrl)
	limiter := mocks.NewMockRateLimiter(ctrl)
	client := ratelimit.NewEthClient(inner, limiter)

	limiter.EXPECT().Wait(gomock.Any()).Return(context.DeadlineExceeded).Times(2)
	inner.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).Times(0)
	inner.EXPECT().HeaderByNumber(gomock.Any(), gomock.Any()).Times(0)

	_, err := client.FilterLogs(context.Background(), ethereum.FilterQuery{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = client.HeaderByNumber(context.Background(), big.NewInt(1))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEthClient_SubscriptionsPassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := mocks.NewMockEthClient(ctrl)
	limiter := mocks.NewMockRateLimiter(ctrl)
	client := ratelimit.NewEthClient(inner, limiter)

	ch := make(chan types.Log)
	limiter.EXPECT().Wait(gomock.Any()).Times(0)
	inner.EXPECT().SubscribeFilterLogs(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("not supported"))
	inner.EXPECT().Close()

	_, err := client.SubscribeFilterLogs(context.Background(), ethereum.FilterQuery{}, ch)
	assert.Error(t, err)
	client.Close()
}
