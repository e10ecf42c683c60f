package models

import "time"

// Task.Status is a two-state flag: false = open, true = closed.
type Task struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Title        string    `gorm:"type:varchar(100);not null" json:"title"`
	Description  *string   `gorm:"type:varchar(1000)" json:"description"`
	Status       bool      `gorm:"not null;default:false" json:"status"`
	Priority     int       `gorm:"not null;default:1" json:"priority"`
	ProjectID    uint64    `gorm:"not null;index" json:"project_id"`
	AssignedToID uint64    `gorm:"not null;index" json:"assigned_to_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Project    Project `gorm:"foreignKey:ProjectID" json:"-"`
	AssignedTo User    `gorm:"foreignKey:AssignedToID" json:"-"`
}
