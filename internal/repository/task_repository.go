package repository

import (
	"github.com/dkrasnov/project-tracker-api/internal/database"
	"github.com/dkrasnov/project-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// List retrieves tasks matching the filter. The assignment scope is the base
// predicate; caller filters are conjoined onto it, then pagination applies.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	query := database.TaskAssignedTo(filter.AssigneeID)(r.db.Model(&models.Task{}))

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.MinPriority != nil {
		query = query.Where("tasks.priority >= ?", *filter.MinPriority)
	}
	if filter.MaxPriority != nil {
		query = query.Where("tasks.priority <= ?", *filter.MaxPriority)
	}

	var tasks []models.Task
	err := query.
		Order("tasks.id ASC").
		Scopes(database.Paginate(filter.Limit, filter.Offset)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// FindByIDForAssignee finds a task by ID if it is assigned to the user.
// Returns gorm.ErrRecordNotFound both when the row is absent and when it is
// assigned to someone else.
func (r *GormTaskRepository) FindByIDForAssignee(id, assigneeID uint64) (*models.Task, error) {
	var task models.Task
	err := database.TaskAssignedTo(assigneeID)(r.db).
		First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateForAssignee applies the column changes with a single scoped UPDATE,
// then re-reads the row in the same transaction. The scoped statement acts
// as a compare-and-set: if the task was deleted or reassigned concurrently,
// zero rows match and the update reports not found instead of clobbering.
func (r *GormTaskRepository) UpdateForAssignee(id, assigneeID uint64, changes map[string]any) (*models.Task, error) {
	var task models.Task

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := database.TaskAssignedTo(assigneeID)(
			tx.Model(&models.Task{}).Where("tasks.id = ?", id),
		).Updates(changes)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		// Fetch by ID rather than by scope: the patch may have reassigned
		// the task away from the acting user.
		return tx.First(&task, id).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// DeleteForAssignee deletes an assigned task. The scoped DELETE makes the
// existence check and the removal one atomic statement.
func (r *GormTaskRepository) DeleteForAssignee(id, assigneeID uint64) error {
	result := database.TaskAssignedTo(assigneeID)(
		r.db.Where("tasks.id = ?", id),
	).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
