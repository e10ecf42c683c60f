package repository

import (
	"github.com/dkrasnov/project-tracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ListAll enumerates every user
	ListAll() ([]models.User, error)
}

// ProjectRepository defines the interface for project data access. Every
// read and mutation is scoped to the owning user.
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// ListByOwner retrieves all projects owned by a user
	ListByOwner(ownerID uint64) ([]models.Project, error)

	// FindByIDForOwner finds a project by ID if it is owned by the user
	FindByIDForOwner(id, ownerID uint64) (*models.Project, error)

	// DeleteForOwner deletes an owned project and all of its tasks in a
	// single transaction
	DeleteForOwner(id, ownerID uint64) error
}

// TaskFilter holds filtering and pagination options for listing tasks.
// AssigneeID is mandatory: it is the scoping clause, not a caller filter.
type TaskFilter struct {
	AssigneeID  uint64
	ProjectID   *uint64
	Status      *bool
	MinPriority *int
	MaxPriority *int
	Limit       int
	Offset      int
}

// TaskRepository defines the interface for task data access. Every read and
// mutation is scoped to the assigned user.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// List retrieves tasks matching the filter, ordered by ID
	List(filter TaskFilter) ([]models.Task, error)

	// FindByIDForAssignee finds a task by ID if it is assigned to the user
	FindByIDForAssignee(id, assigneeID uint64) (*models.Task, error)

	// UpdateForAssignee applies the column changes to an assigned task in a
	// single scoped statement and returns the updated row
	UpdateForAssignee(id, assigneeID uint64, changes map[string]any) (*models.Task, error)

	// DeleteForAssignee deletes an assigned task
	DeleteForAssignee(id, assigneeID uint64) error
}
