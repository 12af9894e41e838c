package store

import (
	"context"

	"github.com/hackdays-io/toban-indexer/internal/store/schema"
)

// Store defines the interface for database operations.
// Getters return (nil, nil) when the row does not exist.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	CursorStore

	// WithTx runs fn inside a single transaction. Nothing fn writes is visible
	// to other callers unless fn returns nil.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// GetWorkspace retrieves a workspace by its tree id
	GetWorkspace(ctx context.Context, id string) (*schema.Workspace, error)
	// CreateWorkspace inserts a workspace
	CreateWorkspace(ctx context.Context, workspace *schema.Workspace) error
	// ListWorkspaces retrieves workspaces ordered by creation block
	ListWorkspaces(ctx context.Context, filter WorkspaceQueryFilter) ([]*schema.Workspace, error)

	// GetModuleRegistration retrieves a module registration by contract address
	GetModuleRegistration(ctx context.Context, address string) (*schema.ModuleRegistration, error)
	// CreateModuleRegistration inserts a module registration
	CreateModuleRegistration(ctx context.Context, registration *schema.ModuleRegistration) error
	// ListModuleRegistrations retrieves every module registration
	ListModuleRegistrations(ctx context.Context) ([]*schema.ModuleRegistration, error)

	// GetInitializedToken retrieves an initialization record by id
	GetInitializedToken(ctx context.Context, id string) (*schema.InitializedToken, error)
	// CreateInitializedToken inserts an initialization record
	CreateInitializedToken(ctx context.Context, token *schema.InitializedToken) error

	// GetBalance retrieves a role-share balance by id
	GetBalance(ctx context.Context, id string) (*schema.Balance, error)
	// SaveBalance inserts or replaces a role-share balance
	SaveBalance(ctx context.Context, balance *schema.Balance) error
	// ListBalances retrieves role-share balances matching the filter
	ListBalances(ctx context.Context, filter BalanceQueryFilter) ([]*schema.Balance, error)

	// GetTransfer retrieves a role-share history record by id
	GetTransfer(ctx context.Context, id string) (*schema.Transfer, error)
	// CreateTransfer inserts a role-share history record
	CreateTransfer(ctx context.Context, transfer *schema.Transfer) error
	// ListTransfers retrieves role-share history records matching the filter
	ListTransfers(ctx context.Context, filter TransferQueryFilter) ([]*schema.Transfer, error)

	// GetThanksTokenBalance retrieves a ThanksToken balance by id
	GetThanksTokenBalance(ctx context.Context, id string) (*schema.ThanksTokenBalance, error)
	// SaveThanksTokenBalance inserts or replaces a ThanksToken balance
	SaveThanksTokenBalance(ctx context.Context, balance *schema.ThanksTokenBalance) error
	// ListThanksTokenBalances retrieves the balances of a ThanksToken contract
	ListThanksTokenBalances(ctx context.Context, contractAddress string, limit int, offset uint64) ([]*schema.ThanksTokenBalance, error)

	// GetThanksTokenTransfer retrieves a ThanksToken history record by id
	GetThanksTokenTransfer(ctx context.Context, id string) (*schema.ThanksTokenTransfer, error)
	// CreateThanksTokenTransfer inserts a ThanksToken history record
	CreateThanksTokenTransfer(ctx context.Context, transfer *schema.ThanksTokenTransfer) error
}

// CursorStore defines the interface for storing and retrieving block cursors
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=CursorStore=MockCursorStore
type CursorStore interface {
	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error
}

// WorkspaceQueryFilter holds the filters for listing workspaces
type WorkspaceQueryFilter struct {
	Creator string
	Limit   int
	Offset  uint64
}

// BalanceQueryFilter holds the filters for listing role-share balances
type BalanceQueryFilter struct {
	WorkspaceID  string
	OwnerAddress string
	TokenID      string
	Limit        int
	Offset       uint64
}

// TransferQueryFilter holds the filters for listing role-share history
type TransferQueryFilter struct {
	WorkspaceID string
	TokenID     string
	Address     string // matches either side
	Limit       int
	Offset      uint64
}

const (
	// DefaultQueryLimit is used when a filter leaves Limit at zero
	DefaultQueryLimit = 50
	// MaxQueryLimit caps any requested limit
	MaxQueryLimit = 500
)

// normalizeLimit applies DefaultQueryLimit and MaxQueryLimit
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultQueryLimit
	}
	return min(limit, MaxQueryLimit)
}

// blockCursorKey is the key_value_store key of a chain's block cursor
func blockCursorKey(chain string) string {
	return "block_cursor:" + chain
}
