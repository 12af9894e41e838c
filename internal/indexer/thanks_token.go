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

// HandleTokensMinted records a ThanksToken mint and credits only the recipient
func (i *indexer) HandleTokensMinted(ctx context.Context, event *domain.ChainEvent) error {
	p := event.TokensMinted
	if p == nil {
		return malformed(event)
	}

	amount, err := domain.ParseUint256(p.Amount)
	if err != nil {
		return err
	}

	err = i.recordThanksToken(ctx, event, schema.ThanksTokenTransferKindMint, domain.ETHEREUM_ZERO_ADDRESS, p.To, amount, p)
	if err != nil {
		return fmt.Errorf("failed to handle TokensMinted: %w", err)
	}
	return nil
}

// HandleThanksTransfer records a ThanksToken transfer between two holders.
// Transfers from or to the zero address are skipped: mints arrive as TokensMinted.
func (i *indexer) HandleThanksTransfer(ctx context.Context, event *domain.ChainEvent) error {
	p := event.Transfer
	if p == nil {
		return malformed(event)
	}

	if domain.IsZeroAddress(p.From) || domain.IsZeroAddress(p.To) {
		debugSkip(ctx, "Skipping ThanksToken mint or burn transfer", event)
		return nil
	}

	amount, err := domain.ParseUint256(p.Value)
	if err != nil {
		return err
	}

	err = i.recordThanksToken(ctx, event, schema.ThanksTokenTransferKindTransfer, p.From, p.To, amount, p)
	if err != nil {
		return fmt.Errorf("failed to handle Transfer: %w", err)
	}
	return nil
}

func (i *indexer) recordThanksToken(
	ctx context.Context,
	event *domain.ChainEvent,
	kind schema.ThanksTokenTransferKind,
	from, to string,
	amount *big.Int,
	payload interface{},
) error {
	contract := domain.NormalizeAddress(event.ContractAddress)
	from = domain.NormalizeAddress(from)
	to = domain.NormalizeAddress(to)
	id := domain.ThanksTokenHistoryKey(contract, event.TxHash, event.LogIndex)

	raw, err := i.raw(payload)
	if err != nil {
		return err
	}

	return i.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetThanksTokenTransfer(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			debugSkip(ctx, "ThanksToken event already recorded", event, zap.String("id", id))
			return nil
		}

		if err := tx.CreateThanksTokenTransfer(ctx, &schema.ThanksTokenTransfer{
			ID:              id,
			Kind:            kind,
			ContractAddress: contract,
			FromAddress:     from,
			ToAddress:       to,
			Amount:          amount.String(),
			TxHash:          event.TxHash,
			LogIndex:        event.LogIndex,
			BlockNumber:     event.BlockNumber,
			BlockTimestamp:  event.Timestamp,
			Raw:             raw,
		}); err != nil {
			return err
		}

		if kind == schema.ThanksTokenTransferKindTransfer {
			if err := updateThanksTokenBalance(ctx, tx, contract, from, new(big.Int).Neg(amount), event.Timestamp); err != nil {
				return err
			}
		}
		return updateThanksTokenBalance(ctx, tx, contract, to, amount, event.Timestamp)
	})
}
