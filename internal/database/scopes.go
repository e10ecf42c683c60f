package database

import (
	"gorm.io/gorm"
)

// Ownership scoping. Every project and task query must pass through one of
// these scopes so that a request can never see or touch rows outside the
// acting user's tenancy. Repositories conjoin caller filters onto the scoped
// query, never the other way around.

// ProjectOwnedBy restricts a project query to rows owned by the given user.
func ProjectOwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("projects.owner_id = ?", userID)
	}
}

// TaskAssignedTo restricts a task query to rows assigned to the given user.
func TaskAssignedTo(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.assigned_to_id = ?", userID)
	}
}

// Paginate applies limit/offset pagination to a GORM query
func Paginate(limit, offset int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}
