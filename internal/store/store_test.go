package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/hackdays-io/toban-indexer/internal/store/schema"
)

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	testCreator = "0x1111111111111111111111111111111111111111"
	testOwner   = "0x2222222222222222222222222222222222222222"
	testModule  = "0x3333333333333333333333333333333333333333"
	testHolder  = "0x4444444444444444444444444444444444444444"
	testToken   = "0x5555555555555555555555555555555555555555"
)

func buildTestWorkspace(id string, blockNumber uint64) *schema.Workspace {
	return &schema.Workspace{
		ID:                   id,
		Creator:              testCreator,
		Owner:                testOwner,
		TopHatID:             "1",
		HatterHatID:          "2",
		HatsTimeFrameModule:  testModule,
		HatsHatCreatorModule: testModule,
		SplitCreator:         testModule,
		BlockNumber:          blockNumber,
		BlockTimestamp:       testTime,
		TxHash:               fmt.Sprintf("0x%064d", blockNumber),
	}
}

func buildTestTransfer(id, tokenID, workspaceID string, blockNumber uint64, logIndex uint) *schema.Transfer {
	return &schema.Transfer{
		ID:             id,
		Scope:          "global",
		Kind:           schema.TransferKindTransfer,
		TokenID:        tokenID,
		FromAddress:    testOwner,
		ToAddress:      testHolder,
		Amount:         "10",
		WorkspaceID:    workspaceID,
		HatID:          "0",
		TxHash:         fmt.Sprintf("0x%064d", blockNumber),
		LogIndex:       logIndex,
		BlockNumber:    blockNumber,
		BlockTimestamp: testTime,
		Raw:            datatypes.JSON(`{"value":"10"}`),
	}
}

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("get non-existent cursor returns 0", func(t *testing.T) {
		cursor, err := store.GetBlockCursor(ctx, "test_chain_nonexistent")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), cursor)
	})

	t.Run("set and get cursor", func(t *testing.T) {
		chain := "test_chain_cursor"
		blockNum := uint64(12345)

		err := store.SetBlockCursor(ctx, chain, blockNum)
		require.NoError(t, err)

		cursor, err := store.GetBlockCursor(ctx, chain)
		require.NoError(t, err)
		assert.Equal(t, blockNum, cursor)
	})

	t.Run("update existing cursor", func(t *testing.T) {
		chain := "test_chain_update"

		err := store.SetBlockCursor(ctx, chain, 100)
		require.NoError(t, err)

		err = store.SetBlockCursor(ctx, chain, 200)
		require.NoError(t, err)

		cursor, err := store.GetBlockCursor(ctx, chain)
		require.NoError(t, err)
		assert.Equal(t, uint64(200), cursor)
	})
}

func testWorkspaces(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing workspace returns nil", func(t *testing.T) {
		ws, err := store.GetWorkspace(ctx, "404")
		require.NoError(t, err)
		assert.Nil(t, ws)
	})

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, store.CreateWorkspace(ctx, buildTestWorkspace("570", 10)))

		ws, err := store.GetWorkspace(ctx, "570")
		require.NoError(t, err)
		require.NotNil(t, ws)
		assert.Equal(t, testCreator, ws.Creator)
		assert.Equal(t, testOwner, ws.Owner)
		assert.Equal(t, uint64(10), ws.BlockNumber)
		assert.True(t, testTime.Equal(ws.BlockTimestamp))
	})

	t.Run("list ordered by block and filtered by creator", func(t *testing.T) {
		require.NoError(t, store.CreateWorkspace(ctx, buildTestWorkspace("572", 12)))
		other := buildTestWorkspace("571", 11)
		other.Creator = testHolder
		require.NoError(t, store.CreateWorkspace(ctx, other))

		all, err := store.ListWorkspaces(ctx, WorkspaceQueryFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "570", all[0].ID)
		assert.Equal(t, "571", all[1].ID)
		assert.Equal(t, "572", all[2].ID)

		mine, err := store.ListWorkspaces(ctx, WorkspaceQueryFilter{Creator: testCreator})
		require.NoError(t, err)
		require.Len(t, mine, 2)

		paged, err := store.ListWorkspaces(ctx, WorkspaceQueryFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, paged, 1)
		assert.Equal(t, "571", paged[0].ID)
	})
}

func testModuleRegistrations(t *testing.T, store Store) {
	ctx := context.Background()

	reg, err := store.GetModuleRegistration(ctx, testModule)
	require.NoError(t, err)
	assert.Nil(t, reg)

	require.NoError(t, store.CreateModuleRegistration(ctx, &schema.ModuleRegistration{
		ID:          testModule,
		Kind:        schema.ModuleKindHatsTimeFrameModule,
		WorkspaceID: "570",
		BlockNumber: 10,
	}))
	require.NoError(t, store.CreateModuleRegistration(ctx, &schema.ModuleRegistration{
		ID:          testToken,
		Kind:        schema.ModuleKindHatsHatCreatorModule,
		WorkspaceID: "570",
		BlockNumber: 9,
	}))

	reg, err = store.GetModuleRegistration(ctx, testModule)
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, schema.ModuleKindHatsTimeFrameModule, reg.Kind)
	assert.Equal(t, "570", reg.WorkspaceID)

	all, err := store.ListModuleRegistrations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, testToken, all[0].ID)
	assert.Equal(t, testModule, all[1].ID)
}

func testInitializedTokens(t *testing.T, store Store) {
	ctx := context.Background()

	token, err := store.GetInitializedToken(ctx, "global-7")
	require.NoError(t, err)
	assert.Nil(t, token)

	require.NoError(t, store.CreateInitializedToken(ctx, &schema.InitializedToken{
		ID:             "global-7",
		Scope:          "global",
		TokenID:        "7",
		HatID:          "42",
		Wearer:         testHolder,
		WorkspaceID:    "570",
		BlockNumber:    20,
		BlockTimestamp: testTime,
	}))

	token, err = store.GetInitializedToken(ctx, "global-7")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "42", token.HatID)
	assert.Equal(t, testHolder, token.Wearer)
	assert.Equal(t, "570", token.WorkspaceID)
}

func testBalances(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("save creates then replaces", func(t *testing.T) {
		balance := &schema.Balance{
			ID:           "global-7-" + testHolder,
			Scope:        "global",
			TokenID:      "7",
			OwnerAddress: testHolder,
			Balance:      "100",
			WorkspaceID:  "570",
			HatID:        "42",
			Wearer:       testOwner,
			UpdatedAt:    testTime,
		}
		require.NoError(t, store.SaveBalance(ctx, balance))

		got, err := store.GetBalance(ctx, balance.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "100", got.Balance)

		got.Balance = "-5"
		got.UpdatedAt = testTime.Add(time.Hour)
		require.NoError(t, store.SaveBalance(ctx, got))

		got, err = store.GetBalance(ctx, balance.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "-5", got.Balance)
		assert.True(t, testTime.Add(time.Hour).Equal(got.UpdatedAt))
	})

	t.Run("returned rows are copies", func(t *testing.T) {
		got, err := store.GetBalance(ctx, "global-7-"+testHolder)
		require.NoError(t, err)
		require.NotNil(t, got)
		got.Balance = "999"

		again, err := store.GetBalance(ctx, "global-7-"+testHolder)
		require.NoError(t, err)
		assert.Equal(t, "-5", again.Balance)
	})

	t.Run("list by filters", func(t *testing.T) {
		require.NoError(t, store.SaveBalance(ctx, &schema.Balance{
			ID:           "global-8-" + testOwner,
			Scope:        "global",
			TokenID:      "8",
			OwnerAddress: testOwner,
			Balance:      "3",
			HatID:        "0",
			UpdatedAt:    testTime,
		}))

		byWorkspace, err := store.ListBalances(ctx, BalanceQueryFilter{WorkspaceID: "570"})
		require.NoError(t, err)
		require.Len(t, byWorkspace, 1)
		assert.Equal(t, testHolder, byWorkspace[0].OwnerAddress)

		byOwner, err := store.ListBalances(ctx, BalanceQueryFilter{OwnerAddress: testOwner})
		require.NoError(t, err)
		require.Len(t, byOwner, 1)
		assert.Equal(t, "8", byOwner[0].TokenID)

		byToken, err := store.ListBalances(ctx, BalanceQueryFilter{TokenID: "7"})
		require.NoError(t, err)
		require.Len(t, byToken, 1)

		all, err := store.ListBalances(ctx, BalanceQueryFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func testTransfers(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, store.CreateTransfer(ctx, buildTestTransfer("t-1", "7", "570", 30, 1)))

		got, err := store.GetTransfer(ctx, "t-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, schema.TransferKindTransfer, got.Kind)
		assert.Equal(t, "10", got.Amount)
		assert.Equal(t, uint(1), got.LogIndex)
		assert.JSONEq(t, `{"value":"10"}`, string(got.Raw))
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		err := store.CreateTransfer(ctx, buildTestTransfer("t-1", "7", "570", 30, 1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateRecord))
	})

	t.Run("list ordered by block and log index", func(t *testing.T) {
		require.NoError(t, store.CreateTransfer(ctx, buildTestTransfer("t-0", "7", "570", 30, 0)))
		require.NoError(t, store.CreateTransfer(ctx, buildTestTransfer("t-2", "8", "571", 29, 5)))

		all, err := store.ListTransfers(ctx, TransferQueryFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "t-2", all[0].ID)
		assert.Equal(t, "t-0", all[1].ID)
		assert.Equal(t, "t-1", all[2].ID)

		byWorkspace, err := store.ListTransfers(ctx, TransferQueryFilter{WorkspaceID: "570", TokenID: "7"})
		require.NoError(t, err)
		assert.Len(t, byWorkspace, 2)

		byAddress, err := store.ListTransfers(ctx, TransferQueryFilter{Address: testHolder, Limit: 1})
		require.NoError(t, err)
		require.Len(t, byAddress, 1)
		assert.Equal(t, "t-2", byAddress[0].ID)
	})
}

func testThanksTokens(t *testing.T, store Store) {
	ctx := context.Background()

	balance, err := store.GetThanksTokenBalance(ctx, testToken+"-"+testHolder)
	require.NoError(t, err)
	assert.Nil(t, balance)

	require.NoError(t, store.SaveThanksTokenBalance(ctx, &schema.ThanksTokenBalance{
		ID:              testToken + "-" + testHolder,
		ContractAddress: testToken,
		OwnerAddress:    testHolder,
		Balance:         "25",
		UpdatedAt:       testTime,
	}))
	require.NoError(t, store.SaveThanksTokenBalance(ctx, &schema.ThanksTokenBalance{
		ID:              testModule + "-" + testHolder,
		ContractAddress: testModule,
		OwnerAddress:    testHolder,
		Balance:         "1",
		UpdatedAt:       testTime,
	}))

	balance, err = store.GetThanksTokenBalance(ctx, testToken+"-"+testHolder)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, "25", balance.Balance)

	balances, err := store.ListThanksTokenBalances(ctx, testToken, 0, 0)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, testHolder, balances[0].OwnerAddress)

	transfer := &schema.ThanksTokenTransfer{
		ID:              testToken + "-0xabc-3",
		Kind:            schema.ThanksTokenTransferKindMint,
		ContractAddress: testToken,
		FromAddress:     "0x0000000000000000000000000000000000000000",
		ToAddress:       testHolder,
		Amount:          "25",
		TxHash:          "0xabc",
		LogIndex:        3,
		BlockNumber:     40,
		BlockTimestamp:  testTime,
	}
	require.NoError(t, store.CreateThanksTokenTransfer(ctx, transfer))
	assert.ErrorIs(t, store.CreateThanksTokenTransfer(ctx, transfer), ErrDuplicateRecord)

	got, err := store.GetThanksTokenTransfer(ctx, transfer.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, schema.ThanksTokenTransferKindMint, got.Kind)
}

func testWithTx(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("commit publishes every write", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx Store) error {
			if err := tx.CreateWorkspace(ctx, buildTestWorkspace("900", 1)); err != nil {
				return err
			}
			ws, err := tx.GetWorkspace(ctx, "900")
			if err != nil {
				return err
			}
			assert.NotNil(t, ws)
			return tx.SaveBalance(ctx, &schema.Balance{
				ID:           "global-1-" + testHolder,
				Scope:        "global",
				TokenID:      "1",
				OwnerAddress: testHolder,
				Balance:      "1",
				HatID:        "0",
				UpdatedAt:    testTime,
			})
		})
		require.NoError(t, err)

		ws, err := store.GetWorkspace(ctx, "900")
		require.NoError(t, err)
		assert.NotNil(t, ws)
		balance, err := store.GetBalance(ctx, "global-1-"+testHolder)
		require.NoError(t, err)
		assert.NotNil(t, balance)
	})

	t.Run("error discards every write", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.WithTx(ctx, func(tx Store) error {
			if err := tx.CreateWorkspace(ctx, buildTestWorkspace("901", 2)); err != nil {
				return err
			}
			if err := tx.SaveBalance(ctx, &schema.Balance{
				ID:           "global-1-" + testHolder,
				Scope:        "global",
				TokenID:      "1",
				OwnerAddress: testHolder,
				Balance:      "500",
				HatID:        "0",
				UpdatedAt:    testTime,
			}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		ws, err := store.GetWorkspace(ctx, "901")
		require.NoError(t, err)
		assert.Nil(t, ws)
		balance, err := store.GetBalance(ctx, "global-1-"+testHolder)
		require.NoError(t, err)
		require.NotNil(t, balance)
		assert.Equal(t, "1", balance.Balance)
	})

	t.Run("duplicate insert rolls back the transaction", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx Store) error {
			return tx.CreateWorkspace(ctx, buildTestWorkspace("900", 3))
		})
		require.Error(t, err)

		ws, err := store.GetWorkspace(ctx, "900")
		require.NoError(t, err)
		require.NotNil(t, ws)
		assert.Equal(t, uint64(1), ws.BlockNumber)
	})
}

func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"BlockCursor", testBlockCursor},
		{"Workspaces", testWorkspaces},
		{"ModuleRegistrations", testModuleRegistrations},
		{"InitializedTokens", testInitializedTokens},
		{"Balances", testBalances},
		{"Transfers", testTransfers},
		{"ThanksTokens", testThanksTokens},
		{"WithTx", testWithTx},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
