package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "taskboard/internal/delivery/context"
	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/repository"
	"taskboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// defaultPageSize is the page size used when the caller does not supply one.
const defaultPageSize = 10

// workspaceService implements the WorkspaceUsecase interface.
type workspaceService struct {
	txManager     repository.TransactionManager
	workspaceRepo repository.WorkspaceRepository
	accountRepo   repository.AccountRepository
	logger        *slog.Logger
}

// WorkspaceServiceParams holds dependencies for workspaceService, injected by Fx.
type WorkspaceServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	WorkspaceRepo repository.WorkspaceRepository
	AccountRepo   repository.AccountRepository
	Logger        *slog.Logger
}

// NewWorkspaceService is the constructor for workspaceService.
func NewWorkspaceService(params WorkspaceServiceParams) usecase.WorkspaceUsecase {
	return &workspaceService{
		txManager:     params.TxManager,
		workspaceRepo: params.WorkspaceRepo,
		accountRepo:   params.AccountRepo,
		logger:        params.Logger,
	}
}

func (srv *workspaceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListWorkspaces pages through the actor's tenant workspaces in id order.
func (srv *workspaceService) ListWorkspaces(ctx context.Context, input *usecase.ListWorkspacesInput) ([]*entity.Workspace, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	workspaces, err := srv.workspaceRepo.ListWorkspaces(ctx, input.Actor.TenantID, input.LastID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list workspaces")
	}

	return workspaces, nil
}

// CreateWorkspace creates a workspace together with the default kanban
// groups in one transaction.
func (srv *workspaceService) CreateWorkspace(ctx context.Context, input *usecase.CreateWorkspaceInput) (*entity.Workspace, error) {
	srv.log(ctx).Debug("Creating workspace", slog.String("name", input.Name), slog.Any("tenantID", input.Actor.TenantID))

	workspace := &entity.Workspace{
		TenantID:  input.Actor.TenantID,
		Name:      input.Name,
		CreatedBy: input.Actor.AccountID,
	}
	for _, groupName := range entity.DefaultGroupNames {
		workspace.Groups = append(workspace.Groups, &entity.Group{
			TenantID:  input.Actor.TenantID,
			Name:      groupName,
			CreatedBy: input.Actor.AccountID,
		})
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.WorkspaceRepo().CreateWorkspace(ctx, workspace)
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to create workspace", slog.String("name", input.Name), slog.Any("error", err))

		return nil, err
	}

	return workspace, nil
}

// GetWorkspaceByName returns the workspace with its groups and tasks.
func (srv *workspaceService) GetWorkspaceByName(ctx context.Context, input *usecase.GetWorkspaceInput) (*entity.Workspace, error) {
	workspace, err := srv.workspaceRepo.FindWorkspaceByName(ctx, input.Actor.TenantID, input.Name)
	if err != nil {
		if errors.Is(err, repository.ErrWorkspaceNotFound) {
			return nil, domainerrors.ErrWorkspaceNotFound.WrapMessage("no workspace with this name")
		}

		return nil, errors.Wrap(err, "failed to find workspace by name")
	}

	groups, err := srv.workspaceRepo.ListGroupsWithTasks(ctx, input.Actor.TenantID, workspace.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load workspace groups")
	}
	workspace.Groups = groups

	return workspace, nil
}

// UpdateGroup renames a group. The group must belong to the given workspace
// within the actor's tenant; anything else reports not-found.
func (srv *workspaceService) UpdateGroup(ctx context.Context, input *usecase.UpdateGroupInput) (*entity.Group, error) {
	group, err := srv.findGroupInWorkspace(ctx, input.Actor, input.WorkspaceID, input.GroupID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	group.Name = input.Name
	group.UpdatedBy = &input.Actor.AccountID
	group.UpdatedAt = &now

	if err := srv.workspaceRepo.UpdateGroup(ctx, group); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, domainerrors.ErrGroupNotFound.WrapMessage("group vanished during update")
		}

		return nil, err
	}

	return group, nil
}

// CreateTask creates a task in the given group of the given workspace.
func (srv *workspaceService) CreateTask(ctx context.Context, input *usecase.CreateTaskInput) (*entity.Task, error) {
	if _, err := srv.findGroupInWorkspace(ctx, input.Actor, input.WorkspaceID, input.GroupID); err != nil {
		return nil, err
	}

	if err := srv.checkAssignee(ctx, input.Actor, input.AssignedTo); err != nil {
		return nil, err
	}

	task := &entity.Task{
		TenantID:    input.Actor.TenantID,
		WorkspaceID: input.WorkspaceID,
		GroupID:     input.GroupID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   input.Actor.AccountID,
	}

	if err := srv.workspaceRepo.CreateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, domainerrors.ErrGroupNotFound.WrapMessage("group vanished during task creation")
		}

		return nil, err
	}

	srv.log(ctx).Debug("Task created", slog.Any("taskID", task.ID), slog.Any("groupID", task.GroupID))

	return task, nil
}

// GetTask returns a single task with its assignee name resolved.
func (srv *workspaceService) GetTask(ctx context.Context, input *usecase.GetTaskInput) (*entity.Task, error) {
	task, err := srv.workspaceRepo.FindTaskByID(ctx, input.Actor.TenantID, input.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound.WrapMessage("no task with this id")
		}

		return nil, errors.Wrap(err, "failed to find task")
	}

	return task, nil
}

// UpdateTask applies a partial update to a task. Only the non-nil fields of
// the input change the task; explicit clear flags null out the nullable
// columns. Moving the task targets a group in the same workspace.
func (srv *workspaceService) UpdateTask(ctx context.Context, input *usecase.UpdateTaskInput) (*entity.Task, error) {
	task, err := srv.workspaceRepo.FindTaskByID(ctx, input.Actor.TenantID, input.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound.WrapMessage("no task with this id")
		}

		return nil, errors.Wrap(err, "failed to find task")
	}

	// The path names the task's current location; a mismatch is reported
	// exactly like a missing task.
	if task.WorkspaceID != input.WorkspaceID || task.GroupID != input.GroupID {
		return nil, domainerrors.ErrTaskNotFound.WrapMessage("task not in this group")
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearDueDate {
		task.DueDate = nil
	}
	if input.AssignedTo != nil {
		if err := srv.checkAssignee(ctx, input.Actor, input.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = input.AssignedTo
	}
	if input.ClearAssignee {
		task.AssignedTo = nil
	}
	if input.MoveToGroupID != nil && *input.MoveToGroupID != task.GroupID {
		target, err := srv.findGroupInWorkspace(ctx, input.Actor, task.WorkspaceID, *input.MoveToGroupID)
		if err != nil {
			return nil, err
		}
		task.GroupID = target.ID
	}

	now := time.Now()
	task.UpdatedBy = &input.Actor.AccountID
	task.UpdatedAt = &now

	if err := srv.workspaceRepo.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound.WrapMessage("task vanished during update")
		}

		return nil, err
	}

	// Re-resolve the assignee name in case the assignment changed.
	if task.AssignedTo == nil {
		task.Assignee = ""
	} else if task.Assignee == "" {
		if assignee, err := srv.accountRepo.FindByID(ctx, input.Actor.TenantID, *task.AssignedTo); err == nil {
			task.Assignee = assignee.FullName
		}
	}

	return task, nil
}

// DeleteTask removes a task.
func (srv *workspaceService) DeleteTask(ctx context.Context, input *usecase.DeleteTaskInput) error {
	if err := srv.workspaceRepo.DeleteTask(ctx, input.Actor.TenantID, input.TaskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return domainerrors.ErrTaskNotFound.WrapMessage("no task with this id")
		}

		return errors.Wrap(err, "failed to delete task")
	}

	srv.log(ctx).Debug("Task deleted", slog.Any("taskID", input.TaskID))

	return nil
}

// findGroupInWorkspace loads a group and checks it belongs to the given
// workspace within the actor's tenant.
func (srv *workspaceService) findGroupInWorkspace(ctx context.Context, actor usecase.Actor, workspaceID, groupID uuid.UUID) (*entity.Group, error) {
	group, err := srv.workspaceRepo.FindGroupByID(ctx, actor.TenantID, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, domainerrors.ErrGroupNotFound.WrapMessage("no group with this id")
		}

		return nil, errors.Wrap(err, "failed to find group")
	}

	if group.WorkspaceID != workspaceID {
		return nil, domainerrors.ErrGroupNotFound.WrapMessage("group not in this workspace")
	}

	return group, nil
}

// checkAssignee verifies the assigned account exists in the actor's tenant.
func (srv *workspaceService) checkAssignee(ctx context.Context, actor usecase.Actor, assignedTo *uuid.UUID) error {
	if assignedTo == nil {
		return nil
	}

	if _, err := srv.accountRepo.FindByID(ctx, actor.TenantID, *assignedTo); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("assignee does not exist")
		}

		return errors.Wrap(err, "failed to check assignee")
	}

	return nil
}
