package schema

import (
	"time"

	"gorm.io/datatypes"
)

// TransferKind classifies a role-share token history record
type TransferKind string

const (
	// TransferKindMint is a transfer from the zero address
	TransferKindMint TransferKind = "mint"
	// TransferKindTransfer is a transfer between two holders
	TransferKindTransfer TransferKind = "transfer"
	// TransferKindBurn is a transfer to the zero address
	TransferKindBurn TransferKind = "burn"
)

// Transfer represents the transfers table - immutable role-share token history
type Transfer struct {
	// ID is the composite key of scope, tx hash, log index, token id, from, to and block number
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Scope is the emitting module address, or "global" for the shared fraction token
	Scope string `gorm:"column:scope;not null;type:text"`
	// Kind is mint, transfer or burn
	Kind TransferKind `gorm:"column:kind;not null;type:text"`
	// TokenID is the ERC-1155 token id
	TokenID string `gorm:"column:token_id;not null;type:numeric(78,0);index:idx_transfers_token"`
	// FromAddress is the sender (zero address for mints)
	FromAddress string `gorm:"column:from_address;not null;type:text"`
	// ToAddress is the recipient (zero address for burns)
	ToAddress string `gorm:"column:to_address;not null;type:text"`
	// Amount is the number of shares moved
	Amount string `gorm:"column:amount;not null;type:numeric(78,0)"`
	// WorkspaceID is copied from the initialization record, empty when unknown
	WorkspaceID string `gorm:"column:workspace_id;not null;default:'';type:text;index:idx_transfers_workspace"`
	// HatID is copied from the initialization record, "0" when unknown
	HatID string `gorm:"column:hat_id;not null;default:0;type:numeric(78,0)"`
	// Wearer is copied from the initialization record, empty when unknown
	Wearer string `gorm:"column:wearer;not null;default:'';type:text"`
	// TxHash is the transaction hash that emitted the transfer
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// LogIndex is the position of the log in its block
	LogIndex uint `gorm:"column:log_index;not null"`
	// BlockNumber is the block number where this transfer was recorded
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// BlockTimestamp is the timestamp of that block
	BlockTimestamp time.Time `gorm:"column:block_timestamp;not null;type:timestamptz"`
	// Raw contains the decoded event as JSON
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Transfer model
func (Transfer) TableName() string {
	return "transfers"
}
