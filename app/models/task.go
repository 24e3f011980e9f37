package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	// TaskStatusCompleted is the canonical terminal state. Legacy rows carry
	// localized spellings; cmd/migrate normalizes them (see migrations).
	TaskStatusCompleted = "completed"
)

type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	ListID      *uint          `gorm:"index" json:"list_id,omitempty"`
	SectionID   *uint          `gorm:"index" json:"section_id,omitempty"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=1,max=255"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"type:varchar(32);not null;default:'open';index" json:"status"`
	DueAt       *time.Time     `gorm:"type:timestamp;default:null" json:"due_at,omitempty"`
	CompletedAt *time.Time     `gorm:"type:timestamp;default:null" json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns the public identifier.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.NewString()
	}
	return nil
}

// IsCompleted reports whether the task reached its terminal state.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// Complete flips the task into its terminal state.
func (t *Task) Complete() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
}
