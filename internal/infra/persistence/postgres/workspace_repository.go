package postgres

import (
	"context"

	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/repository"
	"taskboard/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// workspaceRepository implements the domain.WorkspaceRepository interface.
// Every query filters by tenant id; a row owned by another tenant is
// indistinguishable from a missing row.
type workspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository is the constructor for workspaceRepository.
func NewWorkspaceRepository(db *gorm.DB) repository.WorkspaceRepository {
	return &workspaceRepository{db: db}
}

// ListWorkspaces returns the tenant's workspaces in id order, resuming after
// the lastID cursor when it is non-zero.
func (repo *workspaceRepository) ListWorkspaces(ctx context.Context, tenantID uuid.UUID, lastID uuid.UUID, limit int) ([]*entity.Workspace, error) {
	tx := repo.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID)

	if lastID != uuid.Nil {
		tx = tx.Where("id > ?", lastID)
	}

	var workspaceModels []*model.WorkspaceModel
	if err := tx.Order("id").Limit(limit).Find(&workspaceModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	workspaces := make([]*entity.Workspace, 0, len(workspaceModels))
	for _, workspaceM := range workspaceModels {
		workspaces = append(workspaces, toWorkspaceDomain(workspaceM))
	}

	return workspaces, nil
}

// CreateWorkspace persists a workspace together with its initial groups.
func (repo *workspaceRepository) CreateWorkspace(ctx context.Context, workspace *entity.Workspace) error {
	workspaceM := fromWorkspaceDomain(workspace)

	if err := repo.db.WithContext(ctx).Create(workspaceM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrWorkspaceAlreadyExists.WrapMessage("workspace name already taken")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create workspace")
	}

	workspace.ID = workspaceM.ID
	workspace.CreatedAt = workspaceM.CreatedAt
	for i, groupM := range workspaceM.Groups {
		workspace.Groups[i].ID = groupM.ID
		workspace.Groups[i].WorkspaceID = workspaceM.ID
		workspace.Groups[i].CreatedAt = groupM.CreatedAt
	}

	return nil
}

// FindWorkspaceByName retrieves a workspace by its per-tenant unique name.
func (repo *workspaceRepository) FindWorkspaceByName(ctx context.Context, tenantID uuid.UUID, name string) (*entity.Workspace, error) {
	var workspaceM model.WorkspaceModel

	err := repo.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		First(&workspaceM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrWorkspaceNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toWorkspaceDomain(&workspaceM), nil
}

// FindWorkspaceByID retrieves a workspace by id within the tenant.
func (repo *workspaceRepository) FindWorkspaceByID(ctx context.Context, tenantID, workspaceID uuid.UUID) (*entity.Workspace, error) {
	var workspaceM model.WorkspaceModel

	err := repo.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, workspaceID).
		First(&workspaceM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrWorkspaceNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toWorkspaceDomain(&workspaceM), nil
}

// ListGroupsWithTasks returns the workspace's groups in id order, each with
// its tasks and the assignee names resolved in one extra query.
func (repo *workspaceRepository) ListGroupsWithTasks(ctx context.Context, tenantID, workspaceID uuid.UUID) ([]*entity.Group, error) {
	var groupModels []*model.GroupModel

	err := repo.db.WithContext(ctx).
		Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id")
		}).
		Where("tenant_id = ? AND workspace_id = ?", tenantID, workspaceID).
		Order("id").
		Find(&groupModels).Error

	if err != nil {
		return nil, errors.WithStack(err)
	}

	groups := make([]*entity.Group, 0, len(groupModels))
	tasks := make([]*entity.Task, 0)
	for _, groupM := range groupModels {
		group := toGroupDomain(groupM)
		groups = append(groups, group)
		tasks = append(tasks, group.Tasks...)
	}

	if err := repo.resolveAssignees(ctx, tenantID, tasks); err != nil {
		return nil, err
	}

	return groups, nil
}

// FindGroupByID retrieves a group by id within the tenant.
func (repo *workspaceRepository) FindGroupByID(ctx context.Context, tenantID, groupID uuid.UUID) (*entity.Group, error) {
	var groupM model.GroupModel

	err := repo.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, groupID).
		First(&groupM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGroupNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toGroupDomain(&groupM), nil
}

// UpdateGroup persists name and audit changes of a group.
func (repo *workspaceRepository) UpdateGroup(ctx context.Context, group *entity.Group) error {
	result := repo.db.WithContext(ctx).
		Model(&model.GroupModel{}).
		Where("tenant_id = ? AND id = ?", group.TenantID, group.ID).
		Updates(map[string]any{
			"name":       group.Name,
			"updated_by": group.UpdatedBy,
			"updated_at": group.UpdatedAt,
		})

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrConflict.WrapMessage("group name already taken in this workspace")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update group")
	}

	if result.RowsAffected == 0 {
		return repository.ErrGroupNotFound
	}

	return nil
}

// CreateTask persists a new task.
func (repo *workspaceRepository) CreateTask(ctx context.Context, task *entity.Task) error {
	taskM := fromTaskDomain(task)

	if err := repo.db.WithContext(ctx).Create(taskM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrGroupNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create task")
	}

	task.ID = taskM.ID
	task.CreatedAt = taskM.CreatedAt

	return nil
}

// FindTaskByID retrieves a task by id within the tenant, with its assignee
// name resolved.
func (repo *workspaceRepository) FindTaskByID(ctx context.Context, tenantID, taskID uuid.UUID) (*entity.Task, error) {
	var taskM model.TaskModel

	err := repo.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, taskID).
		First(&taskM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}

		return nil, errors.WithStack(err)
	}

	task := toTaskDomain(&taskM)
	if err := repo.resolveAssignees(ctx, tenantID, []*entity.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

// UpdateTask persists changes of a task.
func (repo *workspaceRepository) UpdateTask(ctx context.Context, task *entity.Task) error {
	result := repo.db.WithContext(ctx).
		Model(&model.TaskModel{}).
		Where("tenant_id = ? AND id = ?", task.TenantID, task.ID).
		Updates(map[string]any{
			"group_id":    task.GroupID,
			"title":       task.Title,
			"description": task.Description,
			"due_date":    task.DueDate,
			"assigned_to": task.AssignedTo,
			"updated_by":  task.UpdatedBy,
			"updated_at":  task.UpdatedAt,
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update task")
	}

	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	return nil
}

// DeleteTask removes a task within the tenant.
func (repo *workspaceRepository) DeleteTask(ctx context.Context, tenantID, taskID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, taskID).
		Delete(&model.TaskModel{})

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	return nil
}

// resolveAssignees fills Task.Assignee from the accounts table for every task
// that has an AssignedTo id. One query covers all tasks passed in.
func (repo *workspaceRepository) resolveAssignees(ctx context.Context, tenantID uuid.UUID, tasks []*entity.Task) error {
	assigneeIDs := make([]uuid.UUID, 0, len(tasks))
	seen := make(map[uuid.UUID]struct{}, len(tasks))
	for _, task := range tasks {
		if task.AssignedTo == nil {
			continue
		}
		if _, ok := seen[*task.AssignedTo]; ok {
			continue
		}
		seen[*task.AssignedTo] = struct{}{}
		assigneeIDs = append(assigneeIDs, *task.AssignedTo)
	}

	if len(assigneeIDs) == 0 {
		return nil
	}

	var accountModels []*model.AccountModel
	err := repo.db.WithContext(ctx).
		Select("id", "full_name").
		Where("tenant_id = ? AND id IN ?", tenantID, assigneeIDs).
		Find(&accountModels).Error

	if err != nil {
		return errors.WithStack(err)
	}

	names := make(map[uuid.UUID]string, len(accountModels))
	for _, accountM := range accountModels {
		names[accountM.ID] = accountM.FullName
	}

	for _, task := range tasks {
		if task.AssignedTo != nil {
			task.Assignee = names[*task.AssignedTo]
		}
	}

	return nil
}

// --- Mapper Functions ---

func toWorkspaceDomain(data *model.WorkspaceModel) *entity.Workspace {
	if data == nil {
		return nil
	}

	workspace := &entity.Workspace{
		ID:        data.ID,
		TenantID:  data.TenantID,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
		CreatedBy: data.CreatedBy,
		UpdatedBy: data.UpdatedBy,
	}
	for _, groupM := range data.Groups {
		workspace.Groups = append(workspace.Groups, toGroupDomain(&groupM))
	}

	return workspace
}

func fromWorkspaceDomain(data *entity.Workspace) *model.WorkspaceModel {
	if data == nil {
		return nil
	}

	workspaceM := &model.WorkspaceModel{
		ID:        data.ID,
		TenantID:  data.TenantID,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
		CreatedBy: data.CreatedBy,
		UpdatedBy: data.UpdatedBy,
	}
	for _, group := range data.Groups {
		workspaceM.Groups = append(workspaceM.Groups, model.GroupModel{
			TenantID:  group.TenantID,
			Name:      group.Name,
			CreatedBy: group.CreatedBy,
		})
	}

	return workspaceM
}

func toGroupDomain(data *model.GroupModel) *entity.Group {
	if data == nil {
		return nil
	}

	group := &entity.Group{
		ID:          data.ID,
		TenantID:    data.TenantID,
		WorkspaceID: data.WorkspaceID,
		Name:        data.Name,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
		CreatedBy:   data.CreatedBy,
		UpdatedBy:   data.UpdatedBy,
	}
	for _, taskM := range data.Tasks {
		group.Tasks = append(group.Tasks, toTaskDomain(&taskM))
	}

	return group
}

func toTaskDomain(data *model.TaskModel) *entity.Task {
	if data == nil {
		return nil
	}

	return &entity.Task{
		ID:          data.ID,
		TenantID:    data.TenantID,
		WorkspaceID: data.WorkspaceID,
		GroupID:     data.GroupID,
		Title:       data.Title,
		Description: data.Description,
		DueDate:     data.DueDate,
		AssignedTo:  data.AssignedTo,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
		CreatedBy:   data.CreatedBy,
		UpdatedBy:   data.UpdatedBy,
	}
}

func fromTaskDomain(data *entity.Task) *model.TaskModel {
	if data == nil {
		return nil
	}

	return &model.TaskModel{
		ID:          data.ID,
		TenantID:    data.TenantID,
		WorkspaceID: data.WorkspaceID,
		GroupID:     data.GroupID,
		Title:       data.Title,
		Description: data.Description,
		DueDate:     data.DueDate,
		AssignedTo:  data.AssignedTo,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
		CreatedBy:   data.CreatedBy,
		UpdatedBy:   data.UpdatedBy,
	}
}
