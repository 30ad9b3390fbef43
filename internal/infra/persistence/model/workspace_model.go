package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkspaceModel mirrors the 'workspaces' table. Names are unique per tenant,
// not globally.
type WorkspaceModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workspaces_tenant_id_name"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_workspaces_tenant_id_name"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt *time.Time

	Groups []GroupModel `gorm:"foreignKey:WorkspaceID"`
}

// TableName explicitly sets the table name for GORM.
func (WorkspaceModel) TableName() string {
	return "workspaces"
}

// GroupModel mirrors the 'groups' table. Group names are unique within their
// workspace. TenantID is denormalized onto every row so isolation checks never
// need a join.
type GroupModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_groups_workspace_id_name"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_groups_workspace_id_name"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedBy   *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt   *time.Time

	Tasks []TaskModel `gorm:"foreignKey:GroupID"`
}

// TableName explicitly sets the table name for GORM.
func (GroupModel) TableName() string {
	return "groups"
}

// TaskModel mirrors the 'tasks' table.
type TaskModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index"`
	GroupID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	DueDate     *time.Time
	AssignedTo  *uuid.UUID `gorm:"type:uuid"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedBy   *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt   *time.Time
}

// TableName explicitly sets the table name for GORM.
func (TaskModel) TableName() string {
	return "tasks"
}
