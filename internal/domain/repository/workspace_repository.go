package repository

import (
	"context"
	"errors"

	"taskboard/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for workspace persistence. A row that exists but
// belongs to another tenant is reported exactly like a missing row.
var (
	// ErrWorkspaceNotFound is returned when a workspace lookup misses.
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrGroupNotFound is returned when a group lookup misses.
	ErrGroupNotFound = errors.New("group not found")
	// ErrTaskNotFound is returned when a task lookup misses.
	ErrTaskNotFound = errors.New("task not found")
)

// WorkspaceRepository defines persistence for workspaces, groups and tasks.
type WorkspaceRepository interface {
	// ListWorkspaces returns the tenant's workspaces ordered by id,
	// starting after the lastID cursor.
	ListWorkspaces(ctx context.Context, tenantID uuid.UUID, lastID uuid.UUID, limit int) ([]*entity.Workspace, error)

	// CreateWorkspace persists a workspace together with its initial groups.
	CreateWorkspace(ctx context.Context, workspace *entity.Workspace) error

	// FindWorkspaceByName retrieves a workspace by its per-tenant unique name.
	FindWorkspaceByName(ctx context.Context, tenantID uuid.UUID, name string) (*entity.Workspace, error)

	// FindWorkspaceByID retrieves a workspace by id within the tenant.
	FindWorkspaceByID(ctx context.Context, tenantID, workspaceID uuid.UUID) (*entity.Workspace, error)

	// ListGroupsWithTasks returns the workspace's groups in id order, each
	// with its tasks and resolved assignee names.
	ListGroupsWithTasks(ctx context.Context, tenantID, workspaceID uuid.UUID) ([]*entity.Group, error)

	// FindGroupByID retrieves a group by id within the tenant.
	FindGroupByID(ctx context.Context, tenantID, groupID uuid.UUID) (*entity.Group, error)

	// UpdateGroup persists name/audit changes of a group.
	UpdateGroup(ctx context.Context, group *entity.Group) error

	// CreateTask persists a new task.
	CreateTask(ctx context.Context, task *entity.Task) error

	// FindTaskByID retrieves a task by id within the tenant, with the
	// assignee name resolved.
	FindTaskByID(ctx context.Context, tenantID, taskID uuid.UUID) (*entity.Task, error)

	// UpdateTask persists changes of a task.
	UpdateTask(ctx context.Context, task *entity.Task) error

	// DeleteTask removes a task within the tenant. Deleting a missing task
	// returns ErrTaskNotFound.
	DeleteTask(ctx context.Context, tenantID, taskID uuid.UUID) error
}
