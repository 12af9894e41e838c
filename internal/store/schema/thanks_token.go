package schema

import (
	"time"

	"gorm.io/datatypes"
)

// ThanksTokenBalance represents the thanks_token_balances table - fungible ThanksToken balance per holder
type ThanksTokenBalance struct {
	// ID is "<contract>-<owner>"
	ID string `gorm:"column:id;primaryKey;type:text"`
	// ContractAddress is the ThanksToken contract
	ContractAddress string `gorm:"column:contract_address;not null;type:text;index:idx_thanks_token_balances_contract"`
	// OwnerAddress is the holder
	OwnerAddress string `gorm:"column:owner_address;not null;type:text;index:idx_thanks_token_balances_owner"`
	// Balance is the signed running balance
	Balance string `gorm:"column:balance;not null;type:numeric(78,0)"`
	// UpdatedAt is the block timestamp of the last change
	UpdatedAt time.Time `gorm:"column:updated_at;not null;type:timestamptz;autoUpdateTime:false"`
	// CreatedAt is the timestamp when this row was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ThanksTokenBalance model
func (ThanksTokenBalance) TableName() string {
	return "thanks_token_balances"
}

// ThanksTokenTransferKind classifies a ThanksToken history record
type ThanksTokenTransferKind string

const (
	ThanksTokenTransferKindMint     ThanksTokenTransferKind = "mint"
	ThanksTokenTransferKindTransfer ThanksTokenTransferKind = "transfer"
)

// ThanksTokenTransfer represents the thanks_token_transfers table - immutable ThanksToken mint and transfer history
type ThanksTokenTransfer struct {
	// ID is "<contract>-<txHash>-<logIndex>"
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Kind is mint or transfer
	Kind ThanksTokenTransferKind `gorm:"column:kind;not null;type:text"`
	// ContractAddress is the ThanksToken contract
	ContractAddress string `gorm:"column:contract_address;not null;type:text;index:idx_thanks_token_transfers_contract"`
	// FromAddress is the sender (zero address for mints)
	FromAddress string `gorm:"column:from_address;not null;type:text"`
	// ToAddress is the recipient
	ToAddress string `gorm:"column:to_address;not null;type:text"`
	// Amount is the number of tokens moved
	Amount string `gorm:"column:amount;not null;type:numeric(78,0)"`
	// TxHash is the transaction hash
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// LogIndex is the position of the log in its block
	LogIndex uint `gorm:"column:log_index;not null"`
	// BlockNumber is the block number
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// BlockTimestamp is the timestamp of that block
	BlockTimestamp time.Time `gorm:"column:block_timestamp;not null;type:timestamptz"`
	// Raw contains the decoded event as JSON
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ThanksTokenTransfer model
func (ThanksTokenTransfer) TableName() string {
	return "thanks_token_transfers"
}
