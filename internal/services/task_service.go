package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dkrasnov/project-tracker-api/internal/constants"
	"github.com/dkrasnov/project-tracker-api/internal/models"
	"github.com/dkrasnov/project-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound covers both a missing row and a row assigned to
	// someone else, so callers cannot probe for existence.
	ErrTaskNotFound     = errors.New("task not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title is too long")
	ErrInvalidPriority  = errors.New("priority must be between 1 and 5")
	ErrAssigneeNotFound = errors.New("assigned user does not exist")
	ErrAssigneeRequired = errors.New("assigned_to_id cannot be null")
)

// TaskService handles task business logic. Reads and mutations are scoped to
// the assigned user; creation additionally requires ownership of the parent
// project.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID   *uint64
	Status      *bool
	MinPriority *int
	MaxPriority *int
	Limit       int
	Offset      int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  *string
	ProjectID    uint64
	Priority     *int
	AssignedToID *uint64
}

// UpdateTaskInput represents a partial update. Nil fields are left
// untouched; ClearDescription records an explicit null for description.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *bool
	Priority         *int
	AssignedToID     *uint64
}

// ListTasks returns tasks assigned to the acting user, filtered and paginated
func (s *TaskService) ListTasks(actorID uint64, input ListTasksInput) ([]models.Task, error) {
	if input.MinPriority != nil && !validPriority(*input.MinPriority) {
		return nil, ErrInvalidPriority
	}
	if input.MaxPriority != nil && !validPriority(*input.MaxPriority) {
		return nil, ErrInvalidPriority
	}

	filter := repository.TaskFilter{
		AssigneeID:  actorID,
		ProjectID:   input.ProjectID,
		Status:      input.Status,
		MinPriority: input.MinPriority,
		MaxPriority: input.MaxPriority,
		Limit:       input.Limit,
		Offset:      input.Offset,
	}
	if filter.Limit < 1 {
		filter.Limit = constants.DefaultPageLimit
	}
	if filter.Limit > constants.MaxPageLimit {
		filter.Limit = constants.MaxPageLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task assigned to the acting user
func (s *TaskService) GetTask(actorID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDForAssignee(taskID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a task inside a project owned by the acting user. The
// assignee defaults to the actor. Creating a task in someone else's project
// fails with ErrProjectNotFound regardless of the intended assignee.
func (s *TaskService) CreateTask(actorID uint64, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > constants.MaxTaskTitleLength {
		return nil, ErrTitleTooLong
	}
	if input.Description != nil && utf8.RuneCountInString(*input.Description) > constants.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	priority := constants.MinTaskPriority
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		priority = *input.Priority
	}

	// Project ownership is checked before anything else touches storage.
	if _, err := s.projectRepo.FindByIDForOwner(input.ProjectID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to verify project ownership: %w", err)
	}

	assigneeID := actorID
	if input.AssignedToID != nil {
		if err := s.ensureUserExists(*input.AssignedToID); err != nil {
			return nil, err
		}
		assigneeID = *input.AssignedToID
	}

	task := &models.Task{
		Title:        title,
		Description:  input.Description,
		Status:       false,
		Priority:     priority,
		ProjectID:    input.ProjectID,
		AssignedToID: assigneeID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update to a task assigned to the acting user.
// Only fields present in the input are touched; updated_at always advances,
// even for an empty patch.
func (s *TaskService) UpdateTask(actorID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	changes := map[string]any{
		"updated_at": time.Now(),
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if utf8.RuneCountInString(title) > constants.MaxTaskTitleLength {
			return nil, ErrTitleTooLong
		}
		changes["title"] = title
	}
	if input.ClearDescription {
		changes["description"] = nil
	} else if input.Description != nil {
		if utf8.RuneCountInString(*input.Description) > constants.MaxDescriptionLength {
			return nil, ErrDescriptionTooLong
		}
		changes["description"] = *input.Description
	}
	if input.Status != nil {
		changes["status"] = *input.Status
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		changes["priority"] = *input.Priority
	}
	if input.AssignedToID != nil {
		if err := s.ensureUserExists(*input.AssignedToID); err != nil {
			return nil, err
		}
		changes["assigned_to_id"] = *input.AssignedToID
	}

	task, err := s.taskRepo.UpdateForAssignee(taskID, actorID, changes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task assigned to the acting user
func (s *TaskService) DeleteTask(actorID, taskID uint64) error {
	if err := s.taskRepo.DeleteForAssignee(taskID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ensureUserExists verifies that a referenced assignee resolves to a user
func (s *TaskService) ensureUserExists(userID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	return nil
}

func validPriority(p int) bool {
	return p >= constants.MinTaskPriority && p <= constants.MaxTaskPriority
}
