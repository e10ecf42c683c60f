package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dkrasnov/project-tracker-api/internal/dto"
	apierrors "github.com/dkrasnov/project-tracker-api/internal/errors"
	"github.com/dkrasnov/project-tracker-api/internal/middleware"
	"github.com/dkrasnov/project-tracker-api/internal/services"
	"github.com/dkrasnov/project-tracker-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks assigned to the current user.
// Optional query filters: project_id, status, min_priority, max_priority.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{}

	if v := c.Query("project_id"); v != "" {
		projectID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		input.ProjectID = &projectID
	}
	if v := c.Query("status"); v != "" {
		status, err := strconv.ParseBool(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}
	if v := c.Query("min_priority"); v != "" {
		minPriority, err := strconv.Atoi(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid min_priority")
			return
		}
		input.MinPriority = &minPriority
	}
	if v := c.Query("max_priority"); v != "" {
		maxPriority, err := strconv.Atoi(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid max_priority")
			return
		}
		input.MaxPriority = &maxPriority
	}

	params := utils.GetPageParams(c)
	input.Limit = params.Limit
	input.Offset = params.Offset

	tasks, err := h.taskService.ListTasks(userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a task inside a project owned by the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title        string  `json:"title" binding:"required,max=100"`
		Description  *string `json:"description" binding:"omitempty,max=1000"`
		ProjectID    uint64  `json:"project_id" binding:"required"`
		Priority     *int    `json:"priority"`
		AssignedToID *uint64 `json:"assigned_to_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(userID, services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		ProjectID:    req.ProjectID,
		Priority:     req.Priority,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a specific task assigned to the current user.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task assigned to the current
// user. Absent fields are left untouched; an explicit null description
// clears it.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title        dto.Optional[string] `json:"title"`
		Description  dto.Optional[string] `json:"description"`
		Status       dto.Optional[bool]   `json:"status"`
		Priority     dto.Optional[int]    `json:"priority"`
		AssignedToID dto.Optional[uint64] `json:"assigned_to_id"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	// Explicit nulls are only meaningful for the nullable description field.
	if (req.Title.Set && !req.Title.Valid) ||
		(req.Status.Set && !req.Status.Valid) ||
		(req.Priority.Set && !req.Priority.Valid) {
		apierrors.BadRequest(c, "Field cannot be null")
		return
	}
	if req.AssignedToID.Set && !req.AssignedToID.Valid {
		apierrors.BadRequest(c, services.ErrAssigneeRequired.Error())
		return
	}

	input := services.UpdateTaskInput{
		Title:        req.Title.Ptr(),
		Description:  req.Description.Ptr(),
		Status:       req.Status.Ptr(),
		Priority:     req.Priority.Ptr(),
		AssignedToID: req.AssignedToID.Ptr(),
	}
	if req.Description.Set && !req.Description.Valid {
		input.ClearDescription = true
	}

	task, err := h.taskService.UpdateTask(userID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task assigned to the current user.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrDescriptionTooLong),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
