package schema

import (
	"time"
)

// InitializedToken represents the initialized_tokens table - the first mint of a role-share token
type InitializedToken struct {
	// ID is "<scope>-<tokenId>"
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Scope is the emitting module address, or "global" for the shared fraction token
	Scope string `gorm:"column:scope;not null;type:text"`
	// TokenID is the ERC-1155 token id
	TokenID string `gorm:"column:token_id;not null;type:numeric(78,0)"`
	// HatID is the role the token shares belong to
	HatID string `gorm:"column:hat_id;not null;type:numeric(78,0)"`
	// Wearer is the address wearing the role at mint time
	Wearer string `gorm:"column:wearer;not null;type:text"`
	// WorkspaceID references the owning workspace
	WorkspaceID string `gorm:"column:workspace_id;not null;type:text;index:idx_initialized_tokens_workspace"`
	// BlockNumber is the block of the initial mint
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// BlockTimestamp is the timestamp of that block
	BlockTimestamp time.Time `gorm:"column:block_timestamp;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this row was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the InitializedToken model
func (InitializedToken) TableName() string {
	return "initialized_tokens"
}
