package schema

import (
	"time"
)

// Balance represents the balances table - running role-share token balance per holder.
// The zero address never has a row; a balance that reaches zero stays as "0".
type Balance struct {
	// ID is "<scope>-<tokenId>-<owner>"
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Scope is the emitting module address, or "global" for the shared fraction token
	Scope string `gorm:"column:scope;not null;type:text"`
	// TokenID is the ERC-1155 token id
	TokenID string `gorm:"column:token_id;not null;type:numeric(78,0);index:idx_balances_token"`
	// OwnerAddress is the blockchain address of the holder
	OwnerAddress string `gorm:"column:owner_address;not null;type:text;index:idx_balances_owner"`
	// Balance is the signed running balance (stored as numeric to support up to 78 digits)
	Balance string `gorm:"column:balance;not null;type:numeric(78,0)"`
	// WorkspaceID is copied from the initialization record, empty when unknown
	WorkspaceID string `gorm:"column:workspace_id;not null;default:'';type:text;index:idx_balances_workspace"`
	// HatID is copied from the initialization record, "0" when unknown
	HatID string `gorm:"column:hat_id;not null;default:0;type:numeric(78,0)"`
	// Wearer is copied from the initialization record, empty when unknown
	Wearer string `gorm:"column:wearer;not null;default:'';type:text"`
	// UpdatedAt is the block timestamp of the last change
	UpdatedAt time.Time `gorm:"column:updated_at;not null;type:timestamptz;autoUpdateTime:false"`
	// CreatedAt is the timestamp when this row was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Balance model
func (Balance) TableName() string {
	return "balances"
}
