package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hackdays-io/toban-indexer/internal/store/schema"
)

// ErrDuplicateRecord is returned when an immutable history record already exists
var ErrDuplicateRecord = errors.New("duplicate record")

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates every table used by the indexer
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(schema.Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0, the defaults of NormalizeConnectionPoolSettings are used.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 10
//   - MaxIdleConns: 2
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// The processor is a single writer, so the defaults are lower than a query service needs.
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 10
	}
	if maxIdleConns == 0 {
		maxIdleConns = 2
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// WithTx runs fn inside a database transaction
func (s *pgStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx})
	})
}

// first loads a single row by primary key, returning (nil, nil) when absent
func first[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetBlockCursor retrieves the last processed block number for a chain
func (s *pgStore) GetBlockCursor(ctx context.Context, chain string) (uint64, error) {
	return (&cursorStore{db: s.db}).GetBlockCursor(ctx, chain)
}

// SetBlockCursor stores the last processed block number for a chain
func (s *pgStore) SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error {
	return (&cursorStore{db: s.db}).SetBlockCursor(ctx, chain, blockNumber)
}

// GetWorkspace retrieves a workspace by its tree id
func (s *pgStore) GetWorkspace(ctx context.Context, id string) (*schema.Workspace, error) {
	ws, err := first[schema.Workspace](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return ws, nil
}

// CreateWorkspace inserts a workspace
func (s *pgStore) CreateWorkspace(ctx context.Context, workspace *schema.Workspace) error {
	if err := s.db.WithContext(ctx).Create(workspace).Error; err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

// ListWorkspaces retrieves workspaces ordered by creation block
func (s *pgStore) ListWorkspaces(ctx context.Context, filter WorkspaceQueryFilter) ([]*schema.Workspace, error) {
	query := s.db.WithContext(ctx).Model(&schema.Workspace{})
	if filter.Creator != "" {
		query = query.Where("creator = ?", filter.Creator)
	}

	var workspaces []*schema.Workspace
	err := query.
		Order("block_number ASC, id ASC").
		Limit(normalizeLimit(filter.Limit)).
		Offset(int(filter.Offset)). //nolint:gosec,G115 // offsets are bounded by the API layer
		Find(&workspaces).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	return workspaces, nil
}

// GetModuleRegistration retrieves a module registration by contract address
func (s *pgStore) GetModuleRegistration(ctx context.Context, address string) (*schema.ModuleRegistration, error) {
	reg, err := first[schema.ModuleRegistration](ctx, s.db, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get module registration: %w", err)
	}
	return reg, nil
}

// CreateModuleRegistration inserts a module registration
func (s *pgStore) CreateModuleRegistration(ctx context.Context, registration *schema.ModuleRegistration) error {
	if err := s.db.WithContext(ctx).Create(registration).Error; err != nil {
		return fmt.Errorf("failed to create module registration: %w", err)
	}
	return nil
}

// ListModuleRegistrations retrieves every module registration
func (s *pgStore) ListModuleRegistrations(ctx context.Context) ([]*schema.ModuleRegistration, error) {
	var registrations []*schema.ModuleRegistration
	if err := s.db.WithContext(ctx).Order("block_number ASC, id ASC").Find(&registrations).Error; err != nil {
		return nil, fmt.Errorf("failed to list module registrations: %w", err)
	}
	return registrations, nil
}

// GetInitializedToken retrieves an initialization record by id
func (s *pgStore) GetInitializedToken(ctx context.Context, id string) (*schema.InitializedToken, error) {
	token, err := first[schema.InitializedToken](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get initialized token: %w", err)
	}
	return token, nil
}

// CreateInitializedToken inserts an initialization record
func (s *pgStore) CreateInitializedToken(ctx context.Context, token *schema.InitializedToken) error {
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create initialized token: %w", err)
	}
	return nil
}

// GetBalance retrieves a role-share balance by id, locking the row for the rest of the transaction
func (s *pgStore) GetBalance(ctx context.Context, id string) (*schema.Balance, error) {
	var balance schema.Balance
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &balance, nil
}

// SaveBalance inserts or replaces a role-share balance
func (s *pgStore) SaveBalance(ctx context.Context, balance *schema.Balance) error {
	if err := s.db.WithContext(ctx).Save(balance).Error; err != nil {
		return fmt.Errorf("failed to save balance: %w", err)
	}
	return nil
}

// ListBalances retrieves role-share balances matching the filter
func (s *pgStore) ListBalances(ctx context.Context, filter BalanceQueryFilter) ([]*schema.Balance, error) {
	query := s.db.WithContext(ctx).Model(&schema.Balance{})
	if filter.WorkspaceID != "" {
		query = query.Where("workspace_id = ?", filter.WorkspaceID)
	}
	if filter.OwnerAddress != "" {
		query = query.Where("owner_address = ?", filter.OwnerAddress)
	}
	if filter.TokenID != "" {
		query = query.Where("token_id = ?", filter.TokenID)
	}

	var balances []*schema.Balance
	err := query.
		Order("id ASC").
		Limit(normalizeLimit(filter.Limit)).
		Offset(int(filter.Offset)). //nolint:gosec,G115 // offsets are bounded by the API layer
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	return balances, nil
}

// GetTransfer retrieves a role-share history record by id
func (s *pgStore) GetTransfer(ctx context.Context, id string) (*schema.Transfer, error) {
	transfer, err := first[schema.Transfer](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	return transfer, nil
}

// CreateTransfer inserts a role-share history record.
// Returns ErrDuplicateRecord when a record with the same id already exists.
func (s *pgStore) CreateTransfer(ctx context.Context, transfer *schema.Transfer) error {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(transfer)
	if result.Error != nil {
		return fmt.Errorf("failed to create transfer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("transfer %s: %w", transfer.ID, ErrDuplicateRecord)
	}
	return nil
}

// ListTransfers retrieves role-share history records matching the filter
func (s *pgStore) ListTransfers(ctx context.Context, filter TransferQueryFilter) ([]*schema.Transfer, error) {
	query := s.db.WithContext(ctx).Model(&schema.Transfer{})
	if filter.WorkspaceID != "" {
		query = query.Where("workspace_id = ?", filter.WorkspaceID)
	}
	if filter.TokenID != "" {
		query = query.Where("token_id = ?", filter.TokenID)
	}
	if filter.Address != "" {
		query = query.Where("from_address = ? OR to_address = ?", filter.Address, filter.Address)
	}

	var transfers []*schema.Transfer
	err := query.
		Order("block_number ASC, log_index ASC").
		Limit(normalizeLimit(filter.Limit)).
		Offset(int(filter.Offset)). //nolint:gosec,G115 // offsets are bounded by the API layer
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	return transfers, nil
}

// GetThanksTokenBalance retrieves a ThanksToken balance by id, locking the row for the rest of the transaction
func (s *pgStore) GetThanksTokenBalance(ctx context.Context, id string) (*schema.ThanksTokenBalance, error) {
	var balance schema.ThanksTokenBalance
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get thanks token balance: %w", err)
	}
	return &balance, nil
}

// SaveThanksTokenBalance inserts or replaces a ThanksToken balance
func (s *pgStore) SaveThanksTokenBalance(ctx context.Context, balance *schema.ThanksTokenBalance) error {
	if err := s.db.WithContext(ctx).Save(balance).Error; err != nil {
		return fmt.Errorf("failed to save thanks token balance: %w", err)
	}
	return nil
}

// ListThanksTokenBalances retrieves the balances of a ThanksToken contract
func (s *pgStore) ListThanksTokenBalances(ctx context.Context, contractAddress string, limit int, offset uint64) ([]*schema.ThanksTokenBalance, error) {
	var balances []*schema.ThanksTokenBalance
	err := s.db.WithContext(ctx).
		Where("contract_address = ?", contractAddress).
		Order("id ASC").
		Limit(normalizeLimit(limit)).
		Offset(int(offset)). //nolint:gosec,G115 // offsets are bounded by the API layer
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list thanks token balances: %w", err)
	}
	return balances, nil
}

// GetThanksTokenTransfer retrieves a ThanksToken history record by id
func (s *pgStore) GetThanksTokenTransfer(ctx context.Context, id string) (*schema.ThanksTokenTransfer, error) {
	transfer, err := first[schema.ThanksTokenTransfer](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get thanks token transfer: %w", err)
	}
	return transfer, nil
}

// CreateThanksTokenTransfer inserts a ThanksToken history record.
// Returns ErrDuplicateRecord when a record with the same id already exists.
func (s *pgStore) CreateThanksTokenTransfer(ctx context.Context, transfer *schema.ThanksTokenTransfer) error {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(transfer)
	if result.Error != nil {
		return fmt.Errorf("failed to create thanks token transfer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("thanks token transfer %s: %w", transfer.ID, ErrDuplicateRecord)
	}
	return nil
}
