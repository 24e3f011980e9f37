package models

import (
	"time"

	"gorm.io/gorm"
)

// UserPlan stores the persisted subscription state for one user: the stored
// plan label and an optional expiry. The effective plan is derived at read
// time; an expired row is lazily rewritten to normal by the plan service.
type UserPlan struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Plan      string     `gorm:"type:varchar(50);not null;default:'normal'" json:"plan"`
	ExpiresAt *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetOrCreateUserPlan returns the existing plan row or creates the default
// free row. Every principal implicitly owns one.
func GetOrCreateUserPlan(db *gorm.DB, userID uint) (*UserPlan, error) {
	var up UserPlan
	if err := db.Where("user_id = ?", userID).First(&up).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			up = UserPlan{UserID: userID, Plan: "normal"}
			if err := db.Create(&up).Error; err != nil {
				return nil, err
			}
			return &up, nil
		}
		return nil, err
	}
	return &up, nil
}

// IsExpired reports whether the stored plan has an expiry strictly in the past.
func (up *UserPlan) IsExpired(now time.Time) bool {
	return up.ExpiresAt != nil && up.ExpiresAt.Before(now)
}
