package indexer

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	"github.com/hackdays-io/toban-indexer/internal/registry"
	"github.com/hackdays-io/toban-indexer/internal/store"
	"github.com/hackdays-io/toban-indexer/internal/store/schema"
)

// Indexer applies decoded chain events to the derived entities.
// Every method runs in a single store transaction: either all of its writes
// are committed or none are.
//
//go:generate mockgen -source=indexer.go -destination=../mocks/indexer.go -package=mocks -mock_names=Indexer=MockIndexer
type Indexer interface {
	// HandleExecuted creates a workspace and registers its two modules
	HandleExecuted(ctx context.Context, event *domain.ChainEvent) error

	// HandleInitialMint records the first mint of a role-share token within scope
	HandleInitialMint(ctx context.Context, scope domain.Scope, event *domain.ChainEvent) error

	// HandleTransferSingle records a role-share token transfer within scope and updates both balances
	HandleTransferSingle(ctx context.Context, scope domain.Scope, event *domain.ChainEvent) error

	// HandleTokensMinted records a ThanksToken mint and credits the recipient
	HandleTokensMinted(ctx context.Context, event *domain.ChainEvent) error

	// HandleThanksTransfer records a ThanksToken transfer between two holders
	HandleThanksTransfer(ctx context.Context, event *domain.ChainEvent) error
}

type indexer struct {
	store    store.Store
	registry registry.Registry
	json     adapter.JSON
}

// NewIndexer creates an indexer writing to st.
// Module addresses created by HandleExecuted are tracked in reg once committed.
func NewIndexer(st store.Store, reg registry.Registry, json adapter.JSON) Indexer {
	return &indexer{
		store:    st,
		registry: reg,
		json:     json,
	}
}

// tokenContext is the denormalized context copied from an initialization record
type tokenContext struct {
	workspaceID string
	hatID       string
	wearer      string
	known       bool
}

func contextFromInit(token *schema.InitializedToken) tokenContext {
	if token == nil {
		return tokenContext{hatID: "0"}
	}
	return tokenContext{
		workspaceID: token.WorkspaceID,
		hatID:       token.HatID,
		wearer:      token.Wearer,
		known:       true,
	}
}

// updateBalance adds delta to the balance of account for tokenID within scope.
// The zero address is never tracked, and no row is created for a zero delta.
func updateBalance(ctx context.Context, tx store.Store, scope domain.Scope, tokenID string, account string, delta *big.Int, tc tokenContext, timestamp time.Time) error {
	if domain.IsZeroAddress(account) {
		return nil
	}

	id := domain.BalanceKey(scope, tokenID, account)
	balance, err := tx.GetBalance(ctx, id)
	if err != nil {
		return err
	}
	if balance == nil {
		if delta.Sign() == 0 {
			return nil
		}
		balance = &schema.Balance{
			ID:           id,
			Scope:        scope.String(),
			TokenID:      tokenID,
			OwnerAddress: domain.NormalizeAddress(account),
			Balance:      "0",
			HatID:        "0",
		}
	}

	current, ok := new(big.Int).SetString(balance.Balance, 10)
	if !ok {
		return fmt.Errorf("invalid stored balance %q for %s", balance.Balance, id)
	}
	balance.Balance = current.Add(current, delta).String()
	balance.UpdatedAt = timestamp

	if tc.known {
		balance.WorkspaceID = tc.workspaceID
		balance.HatID = tc.hatID
		balance.Wearer = tc.wearer
	}

	if err := tx.SaveBalance(ctx, balance); err != nil {
		return fmt.Errorf("failed to update balance %s: %w", id, err)
	}
	return nil
}

// updateThanksTokenBalance adds delta to the ThanksToken balance of account on contract
func updateThanksTokenBalance(ctx context.Context, tx store.Store, contract, account string, delta *big.Int, timestamp time.Time) error {
	if domain.IsZeroAddress(account) {
		return nil
	}

	id := domain.ThanksTokenBalanceKey(contract, account)
	balance, err := tx.GetThanksTokenBalance(ctx, id)
	if err != nil {
		return err
	}
	if balance == nil {
		if delta.Sign() == 0 {
			return nil
		}
		balance = &schema.ThanksTokenBalance{
			ID:              id,
			ContractAddress: domain.NormalizeAddress(contract),
			OwnerAddress:    domain.NormalizeAddress(account),
			Balance:         "0",
		}
	}

	current, ok := new(big.Int).SetString(balance.Balance, 10)
	if !ok {
		return fmt.Errorf("invalid stored balance %q for %s", balance.Balance, id)
	}
	balance.Balance = current.Add(current, delta).String()
	balance.UpdatedAt = timestamp

	if err := tx.SaveThanksTokenBalance(ctx, balance); err != nil {
		return fmt.Errorf("failed to update thanks token balance %s: %w", id, err)
	}
	return nil
}

// raw encodes a decoded payload for the history tables
func (i *indexer) raw(payload interface{}) (datatypes.JSON, error) {
	data, err := i.json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return datatypes.JSON(data), nil
}

func malformed(event *domain.ChainEvent) error {
	return fmt.Errorf("%w: %s event %s has no %s payload", domain.ErrMalformedEvent, event.Name, event.ID(), event.Name)
}

func eventFields(event *domain.ChainEvent) []zap.Field {
	return []zap.Field{
		zap.String("event", string(event.Name)),
		zap.String("contract", event.ContractAddress),
		zap.String("txHash", event.TxHash),
		zap.Uint("logIndex", event.LogIndex),
		zap.Uint64("blockNumber", event.BlockNumber),
	}
}

func debugSkip(ctx context.Context, msg string, event *domain.ChainEvent, fields ...zap.Field) {
	logger.DebugCtx(ctx, msg, append(eventFields(event), fields...)...)
}
