package adapter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
)

func TestJSON_UnmarshalStrict(t *testing.T) {
	type source struct {
		Kind       string `json:"kind"`
		StartBlock uint64 `json:"start_block"`
	}

	tests := []struct {
		name        string
		data        string
		expectedErr string
	}{
		{name: "declared fields", data: `{"kind": "BigBang", "start_block": 7}`},
		{name: "trailing whitespace", data: "{\"kind\": \"BigBang\"}\n\n"},
		{name: "unknown field", data: `{"kind": "BigBang", "startBlock": 7}`, expectedErr: `unknown field "startBlock"`},
		{name: "trailing value", data: `{"kind": "BigBang"} {}`, expectedErr: "unexpected data after top-level value"},
		{name: "invalid", data: `{"kind":`, expectedErr: "unexpected EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s source
			err := adapter.NewJSON().UnmarshalStrict([]byte(tt.data), &s)
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "BigBang", s.Kind)
		})
	}
}

func TestJSON_UnmarshalIgnoresUnknownFields(t *testing.T) {
	var event struct {
		Name string `json:"name"`
	}
	err := adapter.NewJSON().Unmarshal([]byte(`{"name": "Executed", "schema_version": 2}`), &event)
	require.NoError(t, err)
	assert.Equal(t, "Executed", event.Name)
}

func TestClock_BlockTime(t *testing.T) {
	clock := adapter.NewClock()

	ts := clock.BlockTime(1714521600)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), ts)
	assert.Equal(t, time.UTC, ts.Location())
}
