package repository

import (
	"github.com/dkrasnov/project-tracker-api/internal/database"
	"github.com/dkrasnov/project-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// ListByOwner retrieves all projects owned by a user
func (r *GormProjectRepository) ListByOwner(ownerID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := database.ProjectOwnedBy(ownerID)(r.db).
		Order("projects.id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByIDForOwner finds a project by ID if it is owned by the user.
// Returns gorm.ErrRecordNotFound both when the row is absent and when it is
// owned by someone else.
func (r *GormProjectRepository) FindByIDForOwner(id, ownerID uint64) (*models.Project, error) {
	var project models.Project
	err := database.ProjectOwnedBy(ownerID)(r.db).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteForOwner deletes an owned project and cascades to its tasks inside a
// single transaction. The ownership check and the deletes see the same
// snapshot, so a concurrent delete cannot orphan task rows.
func (r *GormProjectRepository) DeleteForOwner(id, ownerID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := database.ProjectOwnedBy(ownerID)(tx).First(&project, id).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}
