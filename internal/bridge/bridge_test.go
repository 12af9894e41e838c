package bridge_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/bridge"
	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	mockspkg "github.com/hackdays-io/toban-indexer/internal/mocks"
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

var testConfig = bridge.Config{
	URL:            "nats://localhost:4222",
	StreamName:     "TOBAN_EVENTS",
	ConsumerName:   "event-processor",
	MaxReconnects:  10,
	ReconnectWait:  1 * time.Second,
	ConnectionName: "test-bridge",
	AckWaitTimeout: 30 * time.Second,
	MaxDeliver:     5,
}

// testBridgeMocks contains all the mocks needed for testing the bridge
type testBridgeMocks struct {
	ctrl           *gomock.Controller
	natsJS         *mockspkg.MockNatsJetStream
	natsConn       *mockspkg.MockNatsConn
	jetStream      *mockspkg.MockJetStream
	consumer       *mockspkg.MockNatsConsumer
	consumeContext *mockspkg.MockConsumeContext
	dispatcher     *mockspkg.MockDispatcher
	json           *mockspkg.MockJSON
}

// setupTestBridge creates all the mocks for testing
func setupTestBridge(t *testing.T) *testBridgeMocks {
	ctrl := gomock.NewController(t)

	return &testBridgeMocks{
		ctrl:           ctrl,
		natsJS:         mockspkg.NewMockNatsJetStream(ctrl),
		natsConn:       mockspkg.NewMockNatsConn(ctrl),
		jetStream:      mockspkg.NewMockJetStream(ctrl),
		consumer:       mockspkg.NewMockNatsConsumer(ctrl),
		consumeContext: mockspkg.NewMockConsumeContext(ctrl),
		dispatcher:     mockspkg.NewMockDispatcher(ctrl),
		json:           mockspkg.NewMockJSON(ctrl),
	}
}

// tearDownTestBridge cleans up the test mocks
func tearDownTestBridge(mocks *testBridgeMocks) {
	mocks.ctrl.Finish()
}

func (tm *testBridgeMocks) newBridge(t *testing.T) bridge.Bridge {
	tm.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(tm.natsConn, tm.jetStream, nil)

	b, err := bridge.NewBridge(testConfig, tm.natsJS, tm.dispatcher, tm.json)
	require.NoError(t, err)
	return b
}

// expectConsume wires the consumer and hands the registered handler to the returned channel
func (tm *testBridgeMocks) expectConsume() <-chan adapter.MessageHandler {
	handlers := make(chan adapter.MessageHandler, 1)

	tm.jetStream.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), testConfig.StreamName, gomock.Any()).
		Return(tm.consumer, nil)
	tm.consumer.EXPECT().
		Info(gomock.Any()).
		Return(&jetstream.ConsumerInfo{Name: testConfig.ConsumerName}, nil)
	tm.consumer.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, _ ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			handlers <- handler
			return tm.consumeContext, nil
		})
	tm.consumeContext.EXPECT().Closed().Return(make(chan struct{})).AnyTimes()
	tm.consumeContext.EXPECT().Stop()

	return handlers
}

func TestBridge_NewBridge_ConnectError(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	mocks.natsJS.
		EXPECT().
		Connect(testConfig.URL, gomock.Any()).
		Return(nil, nil, errors.New("connection refused"))

	b, err := bridge.NewBridge(testConfig, mocks.natsJS, mocks.dispatcher, mocks.json)
	require.Error(t, err)
	assert.Nil(t, b)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestBridge_Run_ConsumerConfig(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	b := mocks.newBridge(t)

	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), testConfig.StreamName, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, cfg jetstream.ConsumerConfig) (adapter.Consumer, error) {
			assert.Equal(t, testConfig.ConsumerName, cfg.Durable)
			assert.Equal(t, jetstream.AckExplicitPolicy, cfg.AckPolicy)
			assert.Equal(t, 1, cfg.MaxAckPending)
			assert.Equal(t, "events.>", cfg.FilterSubject)
			assert.Equal(t, testConfig.MaxDeliver, cfg.MaxDeliver)
			// ack wait floors every step and MaxDeliver caps the count
			assert.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second, 30 * time.Second, 30 * time.Second}, cfg.BackOff)
			return nil, errors.New("stream not found")
		})

	err := b.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create/update consumer")
}

func TestBridge_Run_ConsumerInfoError(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	b := mocks.newBridge(t)

	mocks.jetStream.EXPECT().CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).Return(mocks.consumer, nil)
	mocks.consumer.EXPECT().Info(gomock.Any()).Return(nil, errors.New("timeout"))

	err := b.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get consumer info")
}

func TestBridge_Run_ConsumerClosed(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	b := mocks.newBridge(t)

	closed := make(chan struct{})
	close(closed)

	mocks.jetStream.EXPECT().CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).Return(mocks.consumer, nil)
	mocks.consumer.EXPECT().Info(gomock.Any()).Return(&jetstream.ConsumerInfo{Name: testConfig.ConsumerName}, nil)
	mocks.consumer.EXPECT().Consume(gomock.Any()).Return(mocks.consumeContext, nil)
	mocks.consumeContext.EXPECT().Closed().Return(closed)
	mocks.consumeContext.EXPECT().Stop()

	err := b.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubscriptionFailed)
}

func TestBridge_HandleMessage(t *testing.T) {
	payload := []byte(`{"name":"TokensMinted"}`)

	tests := []struct {
		name     string
		setup    func(tm *testBridgeMocks, msg *mockspkg.MockJetStreamMessage, settled chan<- string)
		expected string
	}{
		{
			name: "acks handled event",
			setup: func(tm *testBridgeMocks, msg *mockspkg.MockJetStreamMessage, settled chan<- string) {
				tm.json.EXPECT().Unmarshal(payload, gomock.Any()).Return(nil)
				tm.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil)
				msg.EXPECT().Ack().DoAndReturn(func() error { settled <- "ack"; return nil })
			},
			expected: "ack",
		},
		{
			name: "terminates unparseable payload",
			setup: func(tm *testBridgeMocks, msg *mockspkg.MockJetStreamMessage, settled chan<- string) {
				tm.json.EXPECT().Unmarshal(payload, gomock.Any()).Return(errors.New("invalid character"))
				msg.EXPECT().Subject().Return("events.eip155-84532.TokensMinted")
				msg.EXPECT().Term().DoAndReturn(func() error { settled <- "term"; return nil })
			},
			expected: "term",
		},
		{
			name: "terminates malformed event",
			setup: func(tm *testBridgeMocks, msg *mockspkg.MockJetStreamMessage, settled chan<- string) {
				tm.json.EXPECT().Unmarshal(payload, gomock.Any()).Return(nil)
				tm.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("%w: bad payload", domain.ErrMalformedEvent))
				msg.EXPECT().Term().DoAndReturn(func() error { settled <- "term"; return nil })
			},
			expected: "term",
		},
		{
			name: "naks with delay on handler failure",
			setup: func(tm *testBridgeMocks, msg *mockspkg.MockJetStreamMessage, settled chan<- string) {
				tm.json.EXPECT().Unmarshal(payload, gomock.Any()).Return(nil)
				tm.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
				msg.EXPECT().NakWithDelay(time.Second).DoAndReturn(func(time.Duration) error { settled <- "nak"; return nil })
			},
			expected: "nak",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestBridge(t)
			defer tearDownTestBridge(mocks)

			b := mocks.newBridge(t)
			handlers := mocks.expectConsume()

			msg := mockspkg.NewMockJetStreamMessage(mocks.ctrl)
			msg.EXPECT().Data().Return(payload)
			msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: 1}, nil).AnyTimes()

			settled := make(chan string, 1)
			tt.setup(mocks, msg, settled)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			done := make(chan error, 1)
			go func() { done <- b.Run(ctx) }()

			handler := <-handlers
			handler(msg)

			select {
			case outcome := <-settled:
				assert.Equal(t, tt.expected, outcome)
			case <-time.After(5 * time.Second):
				t.Fatal("message was not settled")
			}

			cancel()
			assert.ErrorIs(t, <-done, context.Canceled)
		})
	}
}

func TestBridge_HandleMessage_RetryDelay(t *testing.T) {
	tests := []struct {
		name      string
		delivered uint64
		expected  time.Duration
	}{
		{name: "first failure", delivered: 1, expected: time.Second},
		{name: "third failure", delivered: 3, expected: 15 * time.Second},
		{name: "beyond the schedule repeats the last step", delivered: 40, expected: time.Minute},
		{name: "missing metadata uses the first step", delivered: 0, expected: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestBridge(t)
			defer tearDownTestBridge(mocks)

			cfg := testConfig
			cfg.MaxDeliver = -1
			mocks.natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(mocks.natsConn, mocks.jetStream, nil)
			b, err := bridge.NewBridge(cfg, mocks.natsJS, mocks.dispatcher, mocks.json)
			require.NoError(t, err)
			handlers := mocks.expectConsume()

			msg := mockspkg.NewMockJetStreamMessage(mocks.ctrl)
			msg.EXPECT().Data().Return([]byte(`{}`))
			if tt.delivered == 0 {
				msg.EXPECT().Metadata().Return(nil, errors.New("not a jetstream message"))
			} else {
				msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: tt.delivered}, nil)
			}
			mocks.json.EXPECT().Unmarshal(gomock.Any(), gomock.Any()).Return(nil)
			mocks.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

			delays := make(chan time.Duration, 1)
			msg.EXPECT().NakWithDelay(gomock.Any()).DoAndReturn(func(d time.Duration) error {
				delays <- d
				return nil
			})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			done := make(chan error, 1)
			go func() { done <- b.Run(ctx) }()

			(<-handlers)(msg)
			assert.Equal(t, tt.expected, <-delays)

			cancel()
			assert.ErrorIs(t, <-done, context.Canceled)
		})
	}
}

func TestBridge_HandleMessage_LastDeliveryStopsBridge(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	b := mocks.newBridge(t)
	handlers := mocks.expectConsume()

	last := mockspkg.NewMockJetStreamMessage(mocks.ctrl)
	last.EXPECT().Data().Return([]byte(`{}`))
	last.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: uint64(testConfig.MaxDeliver)}, nil)
	mocks.json.EXPECT().Unmarshal(gomock.Any(), gomock.Any()).Return(nil)
	mocks.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	// neither the failed event nor a later one is settled
	next := mockspkg.NewMockJetStreamMessage(mocks.ctrl)

	done := make(chan error, 1)
	go func() { done <- b.Run(context.Background()) }()

	handler := <-handlers
	handler(last)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, bridge.ErrRetriesExhausted)
		assert.Contains(t, err.Error(), "db down")
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not stop")
	}

	handler(next)
}

func TestBridge_HandleMessage_DecodesEvent(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	b := mocks.newBridge(t)
	handlers := mocks.expectConsume()

	msg := mockspkg.NewMockJetStreamMessage(mocks.ctrl)
	msg.EXPECT().Data().Return([]byte(`{}`))
	msg.EXPECT().Metadata().Return(nil, errors.New("not a jetstream message"))

	mocks.json.EXPECT().
		Unmarshal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ []byte, v interface{}) error {
			event := v.(*domain.ChainEvent)
			event.Name = domain.EventExecuted
			event.BlockNumber = 12
			return nil
		})

	acked := make(chan struct{})
	mocks.dispatcher.EXPECT().
		Dispatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *domain.ChainEvent) error {
			assert.Equal(t, domain.EventExecuted, event.Name)
			assert.Equal(t, uint64(12), event.BlockNumber)
			return nil
		})
	msg.EXPECT().Ack().DoAndReturn(func() error { close(acked); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	(<-handlers)(msg)
	<-acked

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestBridge_Close(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	b := mocks.newBridge(t)

	gomock.InOrder(
		mocks.natsConn.EXPECT().Drain().Return(errors.New("connection closed")),
		mocks.natsConn.EXPECT().Close(),
	)

	b.Close()
}
