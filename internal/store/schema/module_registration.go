package schema

import (
	"time"
)

// ModuleKind identifies the template a registered module address was created from
type ModuleKind string

const (
	// ModuleKindHatsTimeFrameModule tracks hat wearing time
	ModuleKindHatsTimeFrameModule ModuleKind = "HatsTimeFrameModule"
	// ModuleKindHatsHatCreatorModule holds hat creation authority
	ModuleKindHatsHatCreatorModule ModuleKind = "HatsHatCreatorModule"
)

// ModuleRegistration represents the module_registrations table - auxiliary contracts bound to one workspace
type ModuleRegistration struct {
	// ID is the module contract address
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Kind is the module template
	Kind ModuleKind `gorm:"column:kind;not null;type:text"`
	// WorkspaceID references the owning workspace
	WorkspaceID string `gorm:"column:workspace_id;not null;type:text;index:idx_module_registrations_workspace"`
	// BlockNumber is the block the module was registered in
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// CreatedAt is the timestamp when this row was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ModuleRegistration model
func (ModuleRegistration) TableName() string {
	return "module_registrations"
}
