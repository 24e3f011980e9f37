package models

import (
	"time"

	"gorm.io/gorm"
)

// Subtask belongs to a task; subtasks are counted per task against the plan
// ceiling.
type Subtask struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TaskID    uint           `gorm:"not null;index" json:"task_id"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=1,max=255"`
	Done      bool           `gorm:"default:false" json:"done"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
