package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultGroupNames are the kanban columns created with every new workspace.
var DefaultGroupNames = []string{"To Do", "In Progress", "In Review", "Done"}

// Workspace is a kanban board. Names are unique per tenant.
type Workspace struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
	CreatedBy uuid.UUID
	UpdatedBy *uuid.UUID

	Groups []*Group
}

// Group is a column within a workspace. Names are unique per workspace.
type Group struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	WorkspaceID uuid.UUID
	Name        string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	CreatedBy   uuid.UUID
	UpdatedBy   *uuid.UUID

	Tasks []*Task
}

// Task is a single card on the board.
type Task struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	WorkspaceID uuid.UUID
	GroupID     uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	AssignedTo  *uuid.UUID // Account id of the assignee, if any.
	Assignee    string     // Full name of the assignee, resolved on read paths.
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	CreatedBy   uuid.UUID
	UpdatedBy   *uuid.UUID
}
