package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskList groups tasks; lists are counted per user against the plan ceiling.
type TaskList struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	Color     string         `gorm:"type:varchar(20);default:''" json:"color"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (l *TaskList) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == "" {
		l.UUID = uuid.NewString()
	}
	return nil
}
