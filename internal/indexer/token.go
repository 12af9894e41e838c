package indexer

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/store"
	"github.com/hackdays-io/toban-indexer/internal/store/schema"
)

// HandleInitialMint records the first mint of a role-share token.
// In the global scope the workspace comes from the hat id; in a module scope it
// comes from the module's registration, and an unregistered module is ignored.
func (i *indexer) HandleInitialMint(ctx context.Context, scope domain.Scope, event *domain.ChainEvent) error {
	p := event.InitialMint
	if p == nil {
		return malformed(event)
	}

	tokenID, err := domain.ParseUint256(p.TokenID)
	if err != nil {
		return err
	}
	hatID, err := domain.ParseUint256(p.HatID)
	if err != nil {
		return err
	}
	id := domain.InitializedTokenKey(scope, tokenID.String())

	err = i.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetInitializedToken(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			debugSkip(ctx, "Token already initialized", event, zap.String("id", id))
			return nil
		}

		workspaceID := domain.HatIDToTreeID(hatID)
		if scope != domain.GlobalScope {
			reg, err := tx.GetModuleRegistration(ctx, string(scope))
			if err != nil {
				return err
			}
			if reg == nil {
				debugSkip(ctx, "Module not registered, ignoring InitialMint", event, zap.String("module", string(scope)))
				return nil
			}
			workspaceID = reg.WorkspaceID
		}

		return tx.CreateInitializedToken(ctx, &schema.InitializedToken{
			ID:             id,
			Scope:          scope.String(),
			TokenID:        tokenID.String(),
			HatID:          hatID.String(),
			Wearer:         domain.NormalizeAddress(p.Wearer),
			WorkspaceID:    workspaceID,
			BlockNumber:    event.BlockNumber,
			BlockTimestamp: event.Timestamp,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to handle InitialMint: %w", err)
	}

	return nil
}

// HandleTransferSingle records a role-share token transfer and moves value
// between both balances. Tokens without an initialization record are still
// recorded, with empty context. A replayed log is a no-op.
func (i *indexer) HandleTransferSingle(ctx context.Context, scope domain.Scope, event *domain.ChainEvent) error {
	p := event.TransferSingle
	if p == nil {
		return malformed(event)
	}

	tokenID, err := domain.ParseUint256(p.ID)
	if err != nil {
		return err
	}
	amount, err := domain.ParseUint256(p.Value)
	if err != nil {
		return err
	}
	from := domain.NormalizeAddress(p.From)
	to := domain.NormalizeAddress(p.To)
	id := domain.TransferKey(scope, event.TxHash, event.LogIndex, tokenID.String(), from, to, event.BlockNumber)

	raw, err := i.raw(p)
	if err != nil {
		return err
	}

	err = i.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetTransfer(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			debugSkip(ctx, "Transfer already recorded", event, zap.String("id", id))
			return nil
		}

		init, err := tx.GetInitializedToken(ctx, domain.InitializedTokenKey(scope, tokenID.String()))
		if err != nil {
			return err
		}
		tc := contextFromInit(init)

		if err := tx.CreateTransfer(ctx, &schema.Transfer{
			ID:             id,
			Scope:          scope.String(),
			Kind:           transferKind(from, to),
			TokenID:        tokenID.String(),
			FromAddress:    from,
			ToAddress:      to,
			Amount:         amount.String(),
			WorkspaceID:    tc.workspaceID,
			HatID:          tc.hatID,
			Wearer:         tc.wearer,
			TxHash:         event.TxHash,
			LogIndex:       event.LogIndex,
			BlockNumber:    event.BlockNumber,
			BlockTimestamp: event.Timestamp,
			Raw:            raw,
		}); err != nil {
			return err
		}

		if err := updateBalance(ctx, tx, scope, tokenID.String(), from, new(big.Int).Neg(amount), tc, event.Timestamp); err != nil {
			return err
		}
		return updateBalance(ctx, tx, scope, tokenID.String(), to, amount, tc, event.Timestamp)
	})
	if err != nil {
		return fmt.Errorf("failed to handle TransferSingle: %w", err)
	}

	return nil
}

func transferKind(from, to string) schema.TransferKind {
	switch {
	case domain.IsZeroAddress(from):
		return schema.TransferKindMint
	case domain.IsZeroAddress(to):
		return schema.TransferKindBurn
	default:
		return schema.TransferKindTransfer
	}
}
