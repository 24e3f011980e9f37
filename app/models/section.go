package models

import (
	"time"

	"gorm.io/gorm"
)

// Section partitions a list; sections are counted per list against the plan
// ceiling.
type Section struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ListID    uint           `gorm:"not null;index" json:"list_id"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	Position  int            `gorm:"default:0" json:"position"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
