package handler

import (
	"log/slog"
	"net/http"
	"time"

	"taskboard/internal/delivery/http/middleware"
	"taskboard/internal/delivery/http/response"
	"taskboard/internal/domain/entity"
	"taskboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// WorkspaceHandler holds dependencies for board-related handlers.
type WorkspaceHandler struct {
	uc     usecase.WorkspaceUsecase
	logger *slog.Logger
}

// NewWorkspaceHandler is the constructor for WorkspaceHandler, injected by Fx.
func NewWorkspaceHandler(uc usecase.WorkspaceUsecase, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		uc:     uc,
		logger: logger,
	}
}

type createWorkspaceRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type updateGroupRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type createTaskRequest struct {
	GroupID     uuid.UUID  `json:"group_id" validate:"required"`
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
}

// updateTaskRequest is a partial update: absent fields keep their current
// value, the clear flags null out the nullable columns explicitly.
type updateTaskRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	DueDate       *time.Time `json:"due_date"`
	ClearDueDate  bool       `json:"clear_due_date"`
	AssignedTo    *uuid.UUID `json:"assigned_to"`
	ClearAssignee bool       `json:"clear_assignee"`
	MoveToGroupID *uuid.UUID `json:"move_to_group_id"`
}

type workspaceView struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
	Groups    []groupView `json:"groups,omitempty"`
}

type groupView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Tasks     []taskView `json:"tasks"`
}

type taskView struct {
	ID          uuid.UUID  `json:"id"`
	GroupID     uuid.UUID  `json:"group_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toTaskView(task *entity.Task) taskView {
	return taskView{
		ID:          task.ID,
		GroupID:     task.GroupID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		AssignedTo:  task.AssignedTo,
		Assignee:    task.Assignee,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func toGroupView(group *entity.Group) groupView {
	view := groupView{
		ID:        group.ID,
		Name:      group.Name,
		CreatedAt: group.CreatedAt,
		UpdatedAt: group.UpdatedAt,
		Tasks:     []taskView{},
	}
	for _, task := range group.Tasks {
		view.Tasks = append(view.Tasks, toTaskView(task))
	}

	return view
}

func toWorkspaceView(workspace *entity.Workspace) workspaceView {
	view := workspaceView{
		ID:        workspace.ID,
		Name:      workspace.Name,
		CreatedAt: workspace.CreatedAt,
		UpdatedAt: workspace.UpdatedAt,
	}
	for _, group := range workspace.Groups {
		view.Groups = append(view.Groups, toGroupView(group))
	}

	return view
}

// List returns the caller's tenant workspaces, cursor-paged.
func (h *WorkspaceHandler) List(c echo.Context) error {
	lastID, limit, err := parsePageParams(c)
	if err != nil {
		return errors.WithStack(err)
	}

	workspaces, err := h.uc.ListWorkspaces(c.Request().Context(), &usecase.ListWorkspacesInput{
		Actor:  middleware.GetActor(c),
		LastID: lastID,
		Limit:  limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]workspaceView, 0, len(workspaces))
	for _, workspace := range workspaces {
		views = append(views, toWorkspaceView(workspace))
	}

	return response.Success(c, http.StatusOK, views, "")
}

// Create creates a workspace with the default kanban groups.
func (h *WorkspaceHandler) Create(c echo.Context) error {
	var req createWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid workspace input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	workspace, err := h.uc.CreateWorkspace(c.Request().Context(), &usecase.CreateWorkspaceInput{
		Actor: middleware.GetActor(c),
		Name:  req.Name,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toWorkspaceView(workspace), "Workspace created successfully")
}

// GetByName returns the full board of a workspace.
func (h *WorkspaceHandler) GetByName(c echo.Context) error {
	workspace, err := h.uc.GetWorkspaceByName(c.Request().Context(), &usecase.GetWorkspaceInput{
		Actor: middleware.GetActor(c),
		Name:  c.Param("name"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toWorkspaceView(workspace), "")
}

// UpdateGroup renames a group on a board.
func (h *WorkspaceHandler) UpdateGroup(c echo.Context) error {
	workspaceID, err := parsePathUUID(c, "workspaceId")
	if err != nil {
		return errors.WithStack(err)
	}
	groupID, err := parsePathUUID(c, "groupId")
	if err != nil {
		return errors.WithStack(err)
	}

	var req updateGroupRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid group input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	group, err := h.uc.UpdateGroup(c.Request().Context(), &usecase.UpdateGroupInput{
		Actor:       middleware.GetActor(c),
		WorkspaceID: workspaceID,
		GroupID:     groupID,
		Name:        req.Name,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toGroupView(group), "Group updated successfully")
}

// CreateTask creates a task in one of the workspace's groups.
func (h *WorkspaceHandler) CreateTask(c echo.Context) error {
	workspaceID, err := parsePathUUID(c, "workspaceId")
	if err != nil {
		return errors.WithStack(err)
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	task, err := h.uc.CreateTask(c.Request().Context(), &usecase.CreateTaskInput{
		Actor:       middleware.GetActor(c),
		WorkspaceID: workspaceID,
		GroupID:     req.GroupID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toTaskView(task), "Task created successfully")
}

// GetTask returns a single task.
func (h *WorkspaceHandler) GetTask(c echo.Context) error {
	taskID, err := parsePathUUID(c, "taskId")
	if err != nil {
		return errors.WithStack(err)
	}

	task, err := h.uc.GetTask(c.Request().Context(), &usecase.GetTaskInput{
		Actor:  middleware.GetActor(c),
		TaskID: taskID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskView(task), "")
}

// UpdateTask applies a partial update to a task addressed by its current
// workspace and group.
func (h *WorkspaceHandler) UpdateTask(c echo.Context) error {
	workspaceID, err := parsePathUUID(c, "workspaceId")
	if err != nil {
		return errors.WithStack(err)
	}
	groupID, err := parsePathUUID(c, "groupId")
	if err != nil {
		return errors.WithStack(err)
	}
	taskID, err := parsePathUUID(c, "taskId")
	if err != nil {
		return errors.WithStack(err)
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}

	task, err := h.uc.UpdateTask(c.Request().Context(), &usecase.UpdateTaskInput{
		Actor:         middleware.GetActor(c),
		WorkspaceID:   workspaceID,
		GroupID:       groupID,
		TaskID:        taskID,
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       req.DueDate,
		ClearDueDate:  req.ClearDueDate,
		AssignedTo:    req.AssignedTo,
		ClearAssignee: req.ClearAssignee,
		MoveToGroupID: req.MoveToGroupID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskView(task), "Task updated successfully")
}

// DeleteTask removes a task.
func (h *WorkspaceHandler) DeleteTask(c echo.Context) error {
	taskID, err := parsePathUUID(c, "taskId")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeleteTask(c.Request().Context(), &usecase.DeleteTaskInput{
		Actor:  middleware.GetActor(c),
		TaskID: taskID,
	}); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
