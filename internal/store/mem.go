package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/hackdays-io/toban-indexer/internal/store/schema"
)

type memState struct {
	keyValues            map[string]string
	workspaces           map[string]schema.Workspace
	moduleRegistrations  map[string]schema.ModuleRegistration
	initializedTokens    map[string]schema.InitializedToken
	balances             map[string]schema.Balance
	transfers            map[string]schema.Transfer
	thanksTokenBalances  map[string]schema.ThanksTokenBalance
	thanksTokenTransfers map[string]schema.ThanksTokenTransfer
}

func newMemState() *memState {
	return &memState{
		keyValues:            make(map[string]string),
		workspaces:           make(map[string]schema.Workspace),
		moduleRegistrations:  make(map[string]schema.ModuleRegistration),
		initializedTokens:    make(map[string]schema.InitializedToken),
		balances:             make(map[string]schema.Balance),
		transfers:            make(map[string]schema.Transfer),
		thanksTokenBalances:  make(map[string]schema.ThanksTokenBalance),
		thanksTokenTransfers: make(map[string]schema.ThanksTokenTransfer),
	}
}

// merge publishes the rows written by a committed transaction
func (m *memState) merge(staged *memState) {
	maps.Copy(m.keyValues, staged.keyValues)
	maps.Copy(m.workspaces, staged.workspaces)
	maps.Copy(m.moduleRegistrations, staged.moduleRegistrations)
	maps.Copy(m.initializedTokens, staged.initializedTokens)
	maps.Copy(m.balances, staged.balances)
	maps.Copy(m.transfers, staged.transfers)
	maps.Copy(m.thanksTokenBalances, staged.thanksTokenBalances)
	maps.Copy(m.thanksTokenTransfers, staged.thanksTokenTransfers)
}

func keyValuesTable(m *memState) map[string]string {
	return m.keyValues
}

func workspacesTable(m *memState) map[string]schema.Workspace {
	return m.workspaces
}

func moduleRegistrationsTable(m *memState) map[string]schema.ModuleRegistration {
	return m.moduleRegistrations
}

func initializedTokensTable(m *memState) map[string]schema.InitializedToken {
	return m.initializedTokens
}

func balancesTable(m *memState) map[string]schema.Balance {
	return m.balances
}

func transfersTable(m *memState) map[string]schema.Transfer {
	return m.transfers
}

func thanksTokenBalancesTable(m *memState) map[string]schema.ThanksTokenBalance {
	return m.thanksTokenBalances
}

func thanksTokenTransfersTable(m *memState) map[string]schema.ThanksTokenTransfer {
	return m.thanksTokenTransfers
}

// memStore keeps every entity in process memory.
// Rows are stored by value so callers never share memory with the store.
type memStore struct {
	mu    *sync.RWMutex
	state *memState
	// parent is set on the store handed to a WithTx callback. Its state only
	// holds the rows written by the transaction; reads fall through to parent.
	parent *memStore
}

// NewMemoryStore creates an empty in-memory store.
// It is used by tests and by the processor's development mode.
func NewMemoryStore() Store {
	return &memStore{
		mu:    &sync.RWMutex{},
		state: newMemState(),
	}
}

func (s *memStore) read() func() {
	if s.parent != nil {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *memStore) write() func() {
	if s.parent != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithTx stages the writes of fn on top of the current state and merges them
// only when fn succeeds. A nested call behaves like a savepoint.
func (s *memStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	unlock := s.write()
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memStore{state: newMemState(), parent: s}
	if err := fn(tx); err != nil {
		return err
	}

	s.state.merge(tx.state)
	return nil
}

func (s *memStore) GetBlockCursor(ctx context.Context, chain string) (uint64, error) {
	defer s.read()()

	value := lookup(s, keyValuesTable, blockCursorKey(chain))
	if value == nil {
		return 0, nil
	}
	blockNumber, err := strconv.ParseUint(*value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}
	return blockNumber, nil
}

func (s *memStore) SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error {
	defer s.write()()

	s.state.keyValues[blockCursorKey(chain)] = strconv.FormatUint(blockNumber, 10)
	return nil
}

func (s *memStore) GetWorkspace(ctx context.Context, id string) (*schema.Workspace, error) {
	defer s.read()()
	return lookup(s, workspacesTable, id), nil
}

func (s *memStore) CreateWorkspace(ctx context.Context, workspace *schema.Workspace) error {
	defer s.write()()

	if lookup(s, workspacesTable, workspace.ID) != nil {
		return fmt.Errorf("workspace %s: %w", workspace.ID, ErrDuplicateRecord)
	}
	s.state.workspaces[workspace.ID] = *workspace
	return nil
}

func (s *memStore) ListWorkspaces(ctx context.Context, filter WorkspaceQueryFilter) ([]*schema.Workspace, error) {
	defer s.read()()

	rows := collect(s, workspacesTable, func(w schema.Workspace) bool {
		return filter.Creator == "" || w.Creator == filter.Creator
	}, func(a, b schema.Workspace) int {
		if a.BlockNumber != b.BlockNumber {
			return compareUint64(a.BlockNumber, b.BlockNumber)
		}
		return strings.Compare(a.ID, b.ID)
	})
	return page(rows, filter.Limit, filter.Offset), nil
}

func (s *memStore) GetModuleRegistration(ctx context.Context, address string) (*schema.ModuleRegistration, error) {
	defer s.read()()
	return lookup(s, moduleRegistrationsTable, address), nil
}

func (s *memStore) CreateModuleRegistration(ctx context.Context, registration *schema.ModuleRegistration) error {
	defer s.write()()

	if lookup(s, moduleRegistrationsTable, registration.ID) != nil {
		return fmt.Errorf("module registration %s: %w", registration.ID, ErrDuplicateRecord)
	}
	s.state.moduleRegistrations[registration.ID] = *registration
	return nil
}

func (s *memStore) ListModuleRegistrations(ctx context.Context) ([]*schema.ModuleRegistration, error) {
	defer s.read()()

	return collect(s, moduleRegistrationsTable, nil, func(a, b schema.ModuleRegistration) int {
		if a.BlockNumber != b.BlockNumber {
			return compareUint64(a.BlockNumber, b.BlockNumber)
		}
		return strings.Compare(a.ID, b.ID)
	}), nil
}

func (s *memStore) GetInitializedToken(ctx context.Context, id string) (*schema.InitializedToken, error) {
	defer s.read()()
	return lookup(s, initializedTokensTable, id), nil
}

func (s *memStore) CreateInitializedToken(ctx context.Context, token *schema.InitializedToken) error {
	defer s.write()()

	if lookup(s, initializedTokensTable, token.ID) != nil {
		return fmt.Errorf("initialized token %s: %w", token.ID, ErrDuplicateRecord)
	}
	s.state.initializedTokens[token.ID] = *token
	return nil
}

func (s *memStore) GetBalance(ctx context.Context, id string) (*schema.Balance, error) {
	defer s.read()()
	return lookup(s, balancesTable, id), nil
}

func (s *memStore) SaveBalance(ctx context.Context, balance *schema.Balance) error {
	defer s.write()()

	s.state.balances[balance.ID] = *balance
	return nil
}

func (s *memStore) ListBalances(ctx context.Context, filter BalanceQueryFilter) ([]*schema.Balance, error) {
	defer s.read()()

	rows := collect(s, balancesTable, func(b schema.Balance) bool {
		return (filter.WorkspaceID == "" || b.WorkspaceID == filter.WorkspaceID) &&
			(filter.OwnerAddress == "" || b.OwnerAddress == filter.OwnerAddress) &&
			(filter.TokenID == "" || b.TokenID == filter.TokenID)
	}, func(a, b schema.Balance) int {
		return strings.Compare(a.ID, b.ID)
	})
	return page(rows, filter.Limit, filter.Offset), nil
}

func (s *memStore) GetTransfer(ctx context.Context, id string) (*schema.Transfer, error) {
	defer s.read()()
	return lookup(s, transfersTable, id), nil
}

func (s *memStore) CreateTransfer(ctx context.Context, transfer *schema.Transfer) error {
	defer s.write()()

	if lookup(s, transfersTable, transfer.ID) != nil {
		return fmt.Errorf("transfer %s: %w", transfer.ID, ErrDuplicateRecord)
	}
	s.state.transfers[transfer.ID] = *transfer
	return nil
}

func (s *memStore) ListTransfers(ctx context.Context, filter TransferQueryFilter) ([]*schema.Transfer, error) {
	defer s.read()()

	rows := collect(s, transfersTable, func(t schema.Transfer) bool {
		return (filter.WorkspaceID == "" || t.WorkspaceID == filter.WorkspaceID) &&
			(filter.TokenID == "" || t.TokenID == filter.TokenID) &&
			(filter.Address == "" || t.FromAddress == filter.Address || t.ToAddress == filter.Address)
	}, func(a, b schema.Transfer) int {
		if a.BlockNumber != b.BlockNumber {
			return compareUint64(a.BlockNumber, b.BlockNumber)
		}
		if a.LogIndex != b.LogIndex {
			return compareUint64(uint64(a.LogIndex), uint64(b.LogIndex))
		}
		return strings.Compare(a.ID, b.ID)
	})
	return page(rows, filter.Limit, filter.Offset), nil
}

func (s *memStore) GetThanksTokenBalance(ctx context.Context, id string) (*schema.ThanksTokenBalance, error) {
	defer s.read()()
	return lookup(s, thanksTokenBalancesTable, id), nil
}

func (s *memStore) SaveThanksTokenBalance(ctx context.Context, balance *schema.ThanksTokenBalance) error {
	defer s.write()()

	s.state.thanksTokenBalances[balance.ID] = *balance
	return nil
}

func (s *memStore) ListThanksTokenBalances(ctx context.Context, contractAddress string, limit int, offset uint64) ([]*schema.ThanksTokenBalance, error) {
	defer s.read()()

	rows := collect(s, thanksTokenBalancesTable, func(b schema.ThanksTokenBalance) bool {
		return b.ContractAddress == contractAddress
	}, func(a, b schema.ThanksTokenBalance) int {
		return strings.Compare(a.ID, b.ID)
	})
	return page(rows, limit, offset), nil
}

func (s *memStore) GetThanksTokenTransfer(ctx context.Context, id string) (*schema.ThanksTokenTransfer, error) {
	defer s.read()()
	return lookup(s, thanksTokenTransfersTable, id), nil
}

func (s *memStore) CreateThanksTokenTransfer(ctx context.Context, transfer *schema.ThanksTokenTransfer) error {
	defer s.write()()

	if lookup(s, thanksTokenTransfersTable, transfer.ID) != nil {
		return fmt.Errorf("thanks token transfer %s: %w", transfer.ID, ErrDuplicateRecord)
	}
	s.state.thanksTokenTransfers[transfer.ID] = *transfer
	return nil
}

// lookup returns a copy of the row stored under id, or nil.
// Inside a transaction the staged row shadows the committed one.
func lookup[T any](s *memStore, table func(*memState) map[string]T, id string) *T {
	for level := s; level != nil; level = level.parent {
		if row, ok := table(level.state)[id]; ok {
			return &row
		}
	}
	return nil
}

// collect copies the rows matching keep, sorted by cmp
func collect[T any](s *memStore, table func(*memState) map[string]T, keep func(T) bool, cmp func(a, b T) int) []*T {
	var (
		values []T
		seen   map[string]struct{}
	)
	if s.parent != nil {
		seen = make(map[string]struct{})
	}
	for level := s; level != nil; level = level.parent {
		for id, row := range table(level.state) {
			if seen != nil {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
			}
			if keep == nil || keep(row) {
				values = append(values, row)
			}
		}
	}
	slices.SortFunc(values, cmp)

	result := make([]*T, len(values))
	for i := range values {
		result[i] = &values[i]
	}
	return result
}

func page[T any](rows []*T, limit int, offset uint64) []*T {
	if offset >= uint64(len(rows)) {
		return []*T{}
	}
	rows = rows[offset:]
	return rows[:min(len(rows), normalizeLimit(limit))]
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
