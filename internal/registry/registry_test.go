package registry_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdays-io/toban-indexer/internal/mocks"
	"github.com/hackdays-io/toban-indexer/internal/registry"
	"github.com/hackdays-io/toban-indexer/internal/store/schema"
)

const (
	bigBang  = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	fraction = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	module   = "0xcccccccccccccccccccccccccccccccccccccccc"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		sources     []registry.Source
		expectedErr string
	}{
		{
			name: "valid sources",
			sources: []registry.Source{
				{Kind: registry.SourceKindBigBang, Address: bigBang},
				{Kind: registry.SourceKindFractionToken, Address: fraction},
			},
		},
		{
			name:        "invalid kind",
			sources:     []registry.Source{{Kind: "Nope", Address: bigBang}},
			expectedErr: "invalid source kind",
		},
		{
			name:        "invalid address",
			sources:     []registry.Source{{Kind: registry.SourceKindBigBang, Address: "0x123"}},
			expectedErr: "invalid source address",
		},
		{
			name: "conflicting kinds",
			sources: []registry.Source{
				{Kind: registry.SourceKindBigBang, Address: bigBang},
				{Kind: registry.SourceKindThanksToken, Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"},
			},
			expectedErr: "registered as both",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := registry.New(tt.sources)
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				assert.Nil(t, reg)
				return
			}
			require.NoError(t, err)
			assert.Len(t, reg.Sources(), len(tt.sources))
		})
	}
}

func TestRegistry_LookupAndTrack(t *testing.T) {
	reg, err := registry.New([]registry.Source{
		{Kind: registry.SourceKindBigBang, Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", StartBlock: 200},
		{Kind: registry.SourceKindFractionToken, Address: fraction, StartBlock: 150},
	})
	require.NoError(t, err)

	kind, ok := reg.Lookup(bigBang)
	assert.True(t, ok)
	assert.Equal(t, registry.SourceKindBigBang, kind)

	_, ok = reg.Lookup(module)
	assert.False(t, ok)

	reg.Track("0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC", registry.SourceKindHatsTimeFrameModule)
	kind, ok = reg.Lookup(module)
	assert.True(t, ok)
	assert.Equal(t, registry.SourceKindHatsTimeFrameModule, kind)
	assert.True(t, kind.IsModule())

	// static sources are never overridden
	reg.Track(bigBang, registry.SourceKindHatsHatCreatorModule)
	kind, _ = reg.Lookup(bigBang)
	assert.Equal(t, registry.SourceKindBigBang, kind)

	assert.Equal(t, uint64(150), reg.StartBlock())

	sources := reg.Sources()
	require.Len(t, sources, 3)
	assert.Equal(t, bigBang, sources[0].Address)
	assert.Equal(t, fraction, sources[1].Address)
	assert.Equal(t, module, sources[2].Address)
}

func TestRegistry_Load(t *testing.T) {
	t.Run("tracks persisted modules", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := mocks.NewMockStore(ctrl)
		mockStore.
			EXPECT().
			ListModuleRegistrations(gomock.Any()).
			Return([]*schema.ModuleRegistration{
				{ID: module, Kind: schema.ModuleKindHatsHatCreatorModule, WorkspaceID: "570"},
			}, nil)

		reg, err := registry.New(nil)
		require.NoError(t, err)
		require.NoError(t, reg.Load(context.Background(), mockStore))

		kind, ok := reg.Lookup(module)
		assert.True(t, ok)
		assert.Equal(t, registry.SourceKindHatsHatCreatorModule, kind)
	})

	t.Run("store error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := mocks.NewMockStore(ctrl)
		mockStore.
			EXPECT().
			ListModuleRegistrations(gomock.Any()).
			Return(nil, assert.AnError)

		reg, err := registry.New(nil)
		require.NoError(t, err)
		err = reg.Load(context.Background(), mockStore)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list module registrations")
	})
}
