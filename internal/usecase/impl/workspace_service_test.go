package impl

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workspaceFixtures holds all test dependencies for workspace service tests.
type workspaceFixtures struct {
	service    usecase.WorkspaceUsecase
	accounts   *fakeAccountRepo
	workspaces *fakeWorkspaceRepo
	actor      usecase.Actor
}

func createTestWorkspaceService(_ *testing.T) workspaceFixtures {
	accounts := newFakeAccountRepo()
	workspaces := newFakeWorkspaceRepo(accounts)
	factory := &fakeFactory{
		accounts:   accounts,
		ledger:     newFakeLedgerRepo(),
		workspaces: workspaces,
	}

	service := NewWorkspaceService(WorkspaceServiceParams{
		TxManager:     &fakeTxManager{factory: factory},
		WorkspaceRepo: workspaces,
		AccountRepo:   accounts,
		Logger:        newDiscardLogger(),
	})

	tenantID := uuid.New()
	owner := accounts.addAccount(tenantID, "owner", "hashed:x")

	return workspaceFixtures{
		service:    service,
		accounts:   accounts,
		workspaces: workspaces,
		actor:      usecase.Actor{TenantID: tenantID, AccountID: owner.ID},
	}
}

// mustCreateWorkspace creates a board for the fixture's actor.
func (f workspaceFixtures) mustCreateWorkspace(t *testing.T, name string) *entity.Workspace {
	t.Helper()

	workspace, err := f.service.CreateWorkspace(context.Background(), &usecase.CreateWorkspaceInput{
		Actor: f.actor,
		Name:  name,
	})
	require.NoError(t, err)

	return workspace
}

func TestWorkspaceService_CreateWorkspace_DefaultGroups(t *testing.T) {
	fixtures := createTestWorkspaceService(t)

	workspace := fixtures.mustCreateWorkspace(t, "Roadmap")

	assert.Equal(t, fixtures.actor.TenantID, workspace.TenantID)
	assert.Equal(t, fixtures.actor.AccountID, workspace.CreatedBy)
	require.Len(t, workspace.Groups, len(entity.DefaultGroupNames))
	for i, group := range workspace.Groups {
		assert.Equal(t, entity.DefaultGroupNames[i], group.Name)
		assert.Equal(t, workspace.ID, group.WorkspaceID)
	}
}

func TestWorkspaceService_CreateWorkspace_DuplicateName(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	fixtures.mustCreateWorkspace(t, "Roadmap")

	_, err := fixtures.service.CreateWorkspace(context.Background(), &usecase.CreateWorkspaceInput{
		Actor: fixtures.actor,
		Name:  "Roadmap",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrWorkspaceAlreadyExists))
}

func TestWorkspaceService_GetWorkspaceByName_WithBoard(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	created := fixtures.mustCreateWorkspace(t, "Roadmap")

	_, err := fixtures.service.CreateTask(context.Background(), &usecase.CreateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: created.ID,
		GroupID:     created.Groups[0].ID,
		Title:       "Ship it",
	})
	require.NoError(t, err)

	workspace, err := fixtures.service.GetWorkspaceByName(context.Background(), &usecase.GetWorkspaceInput{
		Actor: fixtures.actor,
		Name:  "Roadmap",
	})

	require.NoError(t, err)
	require.Len(t, workspace.Groups, len(entity.DefaultGroupNames))

	var total int
	for _, group := range workspace.Groups {
		total += len(group.Tasks)
	}
	assert.Equal(t, 1, total)
}

func TestWorkspaceService_GetWorkspaceByName_OtherTenant(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	fixtures.mustCreateWorkspace(t, "Roadmap")

	stranger := usecase.Actor{TenantID: uuid.New(), AccountID: uuid.New()}
	_, err := fixtures.service.GetWorkspaceByName(context.Background(), &usecase.GetWorkspaceInput{
		Actor: stranger,
		Name:  "Roadmap",
	})

	// Cross-tenant access looks exactly like a missing workspace.
	assert.True(t, errors.Is(err, domainerrors.ErrWorkspaceNotFound))
}

func TestWorkspaceService_UpdateGroup_Rename(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	workspace := fixtures.mustCreateWorkspace(t, "Roadmap")

	group, err := fixtures.service.UpdateGroup(context.Background(), &usecase.UpdateGroupInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[0].ID,
		Name:        "Backlog",
	})

	require.NoError(t, err)
	assert.Equal(t, "Backlog", group.Name)
	require.NotNil(t, group.UpdatedBy)
	assert.Equal(t, fixtures.actor.AccountID, *group.UpdatedBy)
}

func TestWorkspaceService_UpdateGroup_WrongWorkspace(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	first := fixtures.mustCreateWorkspace(t, "Roadmap")
	second := fixtures.mustCreateWorkspace(t, "Icebox")

	_, err := fixtures.service.UpdateGroup(context.Background(), &usecase.UpdateGroupInput{
		Actor:       fixtures.actor,
		WorkspaceID: second.ID,
		GroupID:     first.Groups[0].ID,
		Name:        "Backlog",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrGroupNotFound))
}

func TestWorkspaceService_CreateTask_UnknownAssignee(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	workspace := fixtures.mustCreateWorkspace(t, "Roadmap")

	ghost := uuid.New()
	_, err := fixtures.service.CreateTask(context.Background(), &usecase.CreateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[0].ID,
		Title:       "Ship it",
		AssignedTo:  &ghost,
	})

	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestWorkspaceService_GetTask_ResolvesAssignee(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	workspace := fixtures.mustCreateWorkspace(t, "Roadmap")
	assignee := fixtures.accounts.addAccount(fixtures.actor.TenantID, "bob", "hashed:x")

	created, err := fixtures.service.CreateTask(context.Background(), &usecase.CreateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[0].ID,
		Title:       "Ship it",
		AssignedTo:  &assignee.ID,
	})
	require.NoError(t, err)

	task, err := fixtures.service.GetTask(context.Background(), &usecase.GetTaskInput{
		Actor:  fixtures.actor,
		TaskID: created.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, assignee.FullName, task.Assignee)
}

func TestWorkspaceService_GetTask_OtherTenant(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	workspace := fixtures.mustCreateWorkspace(t, "Roadmap")

	created, err := fixtures.service.CreateTask(context.Background(), &usecase.CreateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[0].ID,
		Title:       "Ship it",
	})
	require.NoError(t, err)

	stranger := usecase.Actor{TenantID: uuid.New(), AccountID: uuid.New()}
	_, err = fixtures.service.GetTask(context.Background(), &usecase.GetTaskInput{
		Actor:  stranger,
		TaskID: created.ID,
	})

	assert.True(t, errors.Is(err, domainerrors.ErrTaskNotFound))
}

func TestWorkspaceService_UpdateTask_PartialUpdate(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	workspace := fixtures.mustCreateWorkspace(t, "Roadmap")

	due := time.Now().Add(48 * time.Hour)
	created, err := fixtures.service.CreateTask(context.Background(), &usecase.CreateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[0].ID,
		Title:       "Ship it",
		Description: "before",
		DueDate:     &due,
	})
	require.NoError(t, err)

	newTitle := "Ship it properly"
	task, err := fixtures.service.UpdateTask(context.Background(), &usecase.UpdateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[0].ID,
		TaskID:      created.ID,
		Title:       &newTitle,
	})

	require.NoError(t, err)
	assert.Equal(t, newTitle, task.Title)
	// Untouched fields keep their values.
	assert.Equal(t, "before", task.Description)
	require.NotNil(t, task.DueDate)
}

func TestWorkspaceService_UpdateTask_ClearDueDate(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	workspace := fixtures.mustCreateWorkspace(t, "Roadmap")

	due := time.Now().Add(48 * time.Hour)
	created, err := fixtures.service.CreateTask(context.Background(), &usecase.CreateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[0].ID,
		Title:       "Ship it",
		DueDate:     &due,
	})
	require.NoError(t, err)

	task, err := fixtures.service.UpdateTask(context.Background(), &usecase.UpdateTaskInput{
		Actor:        fixtures.actor,
		WorkspaceID:  workspace.ID,
		GroupID:      workspace.Groups[0].ID,
		TaskID:       created.ID,
		ClearDueDate: true,
	})

	require.NoError(t, err)
	assert.Nil(t, task.DueDate)
}

func TestWorkspaceService_UpdateTask_MoveBetweenGroups(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	workspace := fixtures.mustCreateWorkspace(t, "Roadmap")

	created, err := fixtures.service.CreateTask(context.Background(), &usecase.CreateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[0].ID,
		Title:       "Ship it",
	})
	require.NoError(t, err)

	target := workspace.Groups[1].ID
	task, err := fixtures.service.UpdateTask(context.Background(), &usecase.UpdateTaskInput{
		Actor:         fixtures.actor,
		WorkspaceID:   workspace.ID,
		GroupID:       workspace.Groups[0].ID,
		TaskID:        created.ID,
		MoveToGroupID: &target,
	})

	require.NoError(t, err)
	assert.Equal(t, target, task.GroupID)
}

func TestWorkspaceService_UpdateTask_MoveToForeignGroup(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	workspace := fixtures.mustCreateWorkspace(t, "Roadmap")
	other := fixtures.mustCreateWorkspace(t, "Icebox")

	created, err := fixtures.service.CreateTask(context.Background(), &usecase.CreateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[0].ID,
		Title:       "Ship it",
	})
	require.NoError(t, err)

	// The target group lives in another workspace.
	target := other.Groups[0].ID
	_, err = fixtures.service.UpdateTask(context.Background(), &usecase.UpdateTaskInput{
		Actor:         fixtures.actor,
		WorkspaceID:   workspace.ID,
		GroupID:       workspace.Groups[0].ID,
		TaskID:        created.ID,
		MoveToGroupID: &target,
	})

	assert.True(t, errors.Is(err, domainerrors.ErrGroupNotFound))
}

func TestWorkspaceService_UpdateTask_PathMismatch(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	workspace := fixtures.mustCreateWorkspace(t, "Roadmap")

	created, err := fixtures.service.CreateTask(context.Background(), &usecase.CreateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[0].ID,
		Title:       "Ship it",
	})
	require.NoError(t, err)

	newTitle := "renamed"
	_, err = fixtures.service.UpdateTask(context.Background(), &usecase.UpdateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[1].ID, // task lives in Groups[0]
		TaskID:      created.ID,
		Title:       &newTitle,
	})

	assert.True(t, errors.Is(err, domainerrors.ErrTaskNotFound))
}

func TestWorkspaceService_DeleteTask_NotIdempotent(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	workspace := fixtures.mustCreateWorkspace(t, "Roadmap")

	created, err := fixtures.service.CreateTask(context.Background(), &usecase.CreateTaskInput{
		Actor:       fixtures.actor,
		WorkspaceID: workspace.ID,
		GroupID:     workspace.Groups[0].ID,
		Title:       "Ship it",
	})
	require.NoError(t, err)

	require.NoError(t, fixtures.service.DeleteTask(context.Background(), &usecase.DeleteTaskInput{
		Actor:  fixtures.actor,
		TaskID: created.ID,
	}))

	err = fixtures.service.DeleteTask(context.Background(), &usecase.DeleteTaskInput{
		Actor:  fixtures.actor,
		TaskID: created.ID,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrTaskNotFound))
}

func TestWorkspaceService_ListWorkspaces_FiltersByTenant(t *testing.T) {
	fixtures := createTestWorkspaceService(t)
	fixtures.mustCreateWorkspace(t, "Roadmap")
	fixtures.mustCreateWorkspace(t, "Icebox")

	other := usecase.Actor{TenantID: uuid.New(), AccountID: uuid.New()}
	_, err := fixtures.service.CreateWorkspace(context.Background(), &usecase.CreateWorkspaceInput{
		Actor: other,
		Name:  "Roadmap",
	})
	require.NoError(t, err)

	workspaces, err := fixtures.service.ListWorkspaces(context.Background(), &usecase.ListWorkspacesInput{
		Actor: fixtures.actor,
	})

	require.NoError(t, err)
	assert.Len(t, workspaces, 2)
	for _, workspace := range workspaces {
		assert.Equal(t, fixtures.actor.TenantID, workspace.TenantID)
	}
}
