package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	"github.com/hackdays-io/toban-indexer/internal/registry"
	"github.com/hackdays-io/toban-indexer/internal/store"
	"github.com/hackdays-io/toban-indexer/internal/store/schema"
)

// HandleExecuted creates the workspace keyed by the tree id of the top hat,
// registers both of its modules and starts routing their events.
// A workspace is write-once: a second Executed for the same tree is ignored.
func (i *indexer) HandleExecuted(ctx context.Context, event *domain.ChainEvent) error {
	p := event.Executed
	if p == nil {
		return malformed(event)
	}

	topHatID, err := domain.ParseUint256(p.TopHatID)
	if err != nil {
		return err
	}
	hatterHatID, err := domain.ParseUint256(p.HatterHatID)
	if err != nil {
		return err
	}
	workspaceID := domain.HatIDToTreeID(topHatID)

	modules := []struct {
		address string
		kind    schema.ModuleKind
	}{
		{domain.NormalizeAddress(p.HatsTimeFrameModule), schema.ModuleKindHatsTimeFrameModule},
		{domain.NormalizeAddress(p.HatsHatCreatorModule), schema.ModuleKindHatsHatCreatorModule},
	}

	created := false
	var registered []schema.ModuleRegistration
	err = i.store.WithTx(ctx, func(tx store.Store) error {
		registered = registered[:0]

		existing, err := tx.GetWorkspace(ctx, workspaceID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.TxHash != event.TxHash {
				logger.WarnCtx(ctx, "Workspace already exists, ignoring Executed",
					append(eventFields(event),
						zap.String("workspaceID", workspaceID),
						zap.String("existingTxHash", existing.TxHash))...)
			}
			return nil
		}

		workspace := &schema.Workspace{
			ID:                   workspaceID,
			Creator:              domain.NormalizeAddress(p.Creator),
			Owner:                domain.NormalizeAddress(p.Owner),
			TopHatID:             topHatID.String(),
			HatterHatID:          hatterHatID.String(),
			HatsTimeFrameModule:  modules[0].address,
			HatsHatCreatorModule: modules[1].address,
			SplitCreator:         domain.NormalizeAddress(p.SplitCreator),
			BlockNumber:          event.BlockNumber,
			BlockTimestamp:       event.Timestamp,
			TxHash:               event.TxHash,
		}
		if err := tx.CreateWorkspace(ctx, workspace); err != nil {
			return err
		}

		for _, m := range modules {
			reg, err := tx.GetModuleRegistration(ctx, m.address)
			if err != nil {
				return err
			}
			if reg != nil {
				logger.WarnCtx(ctx, "Module already registered",
					zap.String("module", m.address),
					zap.String("workspaceID", reg.WorkspaceID))
				continue
			}
			registration := schema.ModuleRegistration{
				ID:          m.address,
				Kind:        m.kind,
				WorkspaceID: workspaceID,
				BlockNumber: event.BlockNumber,
			}
			if err := tx.CreateModuleRegistration(ctx, &registration); err != nil {
				return err
			}
			registered = append(registered, registration)
		}

		created = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to handle Executed: %w", err)
	}

	// only registrations this transaction persisted are routed
	for _, r := range registered {
		kind, _ := registry.SourceKindForModule(r.Kind)
		i.registry.Track(r.ID, kind)
	}

	if created {
		logger.InfoCtx(ctx, "Workspace created",
			zap.String("workspaceID", workspaceID),
			zap.String("creator", domain.NormalizeAddress(p.Creator)),
			zap.Uint64("blockNumber", event.BlockNumber))
	}

	return nil
}
