package usecase

import (
	"context"
	"time"

	"taskboard/internal/domain/entity"

	"github.com/google/uuid"
)

// Actor identifies the authenticated caller of a workspace operation. It is
// extracted from the verified access token, never from the request body.
type Actor struct {
	TenantID  uuid.UUID
	AccountID uuid.UUID
}

// --- Input DTOs ---

// ListWorkspacesInput pages through the actor's tenant workspaces.
type ListWorkspacesInput struct {
	Actor  Actor
	LastID uuid.UUID
	Limit  int
}

// CreateWorkspaceInput defines the data required to create a workspace.
type CreateWorkspaceInput struct {
	Actor Actor
	Name  string
}

// GetWorkspaceInput fetches a workspace with its full board by name.
type GetWorkspaceInput struct {
	Actor Actor
	Name  string
}

// UpdateGroupInput renames a group on a board.
type UpdateGroupInput struct {
	Actor       Actor
	WorkspaceID uuid.UUID
	GroupID     uuid.UUID
	Name        string
}

// CreateTaskInput defines the data required to create a task.
type CreateTaskInput struct {
	Actor       Actor
	WorkspaceID uuid.UUID
	GroupID     uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	AssignedTo  *uuid.UUID
}

// GetTaskInput fetches a single task by id.
type GetTaskInput struct {
	Actor  Actor
	TaskID uuid.UUID
}

// UpdateTaskInput carries a partial task update. Nil fields are left
// untouched; non-nil fields overwrite, including explicit clears for the
// nullable columns.
type UpdateTaskInput struct {
	Actor       Actor
	WorkspaceID uuid.UUID
	GroupID     uuid.UUID
	TaskID      uuid.UUID

	Title         *string
	Description   *string
	DueDate       *time.Time
	ClearDueDate  bool
	AssignedTo    *uuid.UUID
	ClearAssignee bool
	MoveToGroupID *uuid.UUID
}

// DeleteTaskInput removes a task by id.
type DeleteTaskInput struct {
	Actor  Actor
	TaskID uuid.UUID
}

// WorkspaceUsecase defines the interface for board-related business
// operations. Every operation is scoped to the actor's tenant.
type WorkspaceUsecase interface {
	ListWorkspaces(ctx context.Context, input *ListWorkspacesInput) ([]*entity.Workspace, error)
	CreateWorkspace(ctx context.Context, input *CreateWorkspaceInput) (*entity.Workspace, error)
	GetWorkspaceByName(ctx context.Context, input *GetWorkspaceInput) (*entity.Workspace, error)
	UpdateGroup(ctx context.Context, input *UpdateGroupInput) (*entity.Group, error)
	CreateTask(ctx context.Context, input *CreateTaskInput) (*entity.Task, error)
	GetTask(ctx context.Context, input *GetTaskInput) (*entity.Task, error)
	UpdateTask(ctx context.Context, input *UpdateTaskInput) (*entity.Task, error)
	DeleteTask(ctx context.Context, input *DeleteTaskInput) error
}
