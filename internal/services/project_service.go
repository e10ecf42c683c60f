package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dkrasnov/project-tracker-api/internal/constants"
	"github.com/dkrasnov/project-tracker-api/internal/models"
	"github.com/dkrasnov/project-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrProjectNotFound covers both a missing row and a row owned by
	// someone else, so callers cannot probe for existence.
	ErrProjectNotFound    = errors.New("project not found")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name is too long")
	ErrDescriptionTooLong = errors.New("description is too long")
)

// ProjectService handles project business logic. Every operation is scoped
// to the acting user's ownership.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description *string
}

// ListProjects returns all projects owned by the acting user
func (s *ProjectService) ListProjects(actorID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// CreateProject creates a project owned by the acting user. The owner is
// forced to the actor regardless of caller input.
func (s *ProjectService) CreateProject(actorID uint64, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if utf8.RuneCountInString(name) > constants.MaxProjectNameLength {
		return nil, ErrNameTooLong
	}
	if input.Description != nil && utf8.RuneCountInString(*input.Description) > constants.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		OwnerID:     actorID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// GetProject returns a project owned by the acting user
func (s *ProjectService) GetProject(actorID, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDForOwner(projectID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// DeleteProject deletes an owned project and all of its tasks
func (s *ProjectService) DeleteProject(actorID, projectID uint64) error {
	if err := s.projectRepo.DeleteForOwner(projectID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
