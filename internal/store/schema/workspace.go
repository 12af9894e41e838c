package schema

import (
	"time"
)

// Workspace represents the workspaces table - one row per organizational hat tree.
// Rows are written once, when BigBang emits Executed, and never updated.
type Workspace struct {
	// ID is the tree id derived from the top hat id
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Creator is the address that called BigBang
	Creator string `gorm:"column:creator;not null;type:text;index:idx_workspaces_creator"`
	// Owner is the address that received the top hat
	Owner string `gorm:"column:owner;not null;type:text"`
	// TopHatID is the top hat id (decimal, up to 78 digits)
	TopHatID string `gorm:"column:top_hat_id;not null;type:numeric(78,0)"`
	// HatterHatID is the hatter hat id (decimal, up to 78 digits)
	HatterHatID string `gorm:"column:hatter_hat_id;not null;type:numeric(78,0)"`
	// HatsTimeFrameModule is the address of the workspace's time frame module
	HatsTimeFrameModule string `gorm:"column:hats_time_frame_module;not null;type:text"`
	// HatsHatCreatorModule is the address of the workspace's hat creator module
	HatsHatCreatorModule string `gorm:"column:hats_hat_creator_module;not null;type:text"`
	// SplitCreator is the address of the workspace's split creator contract
	SplitCreator string `gorm:"column:split_creator;not null;type:text"`
	// BlockNumber is the block the workspace was created in
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// BlockTimestamp is the timestamp of that block
	BlockTimestamp time.Time `gorm:"column:block_timestamp;not null;type:timestamptz"`
	// TxHash is the creating transaction
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// CreatedAt is the timestamp when this row was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Workspace model
func (Workspace) TableName() string {
	return "workspaces"
}
