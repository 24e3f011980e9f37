package repository

import (
	"time"

	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// aiUsageRepository implements the AIUsageRepository interface. It is the
// only place aware of the backend dialect: MySQL evaluates the calendar-day
// window server-side, the embedded SQLite store shares the process clock and
// uses bounds computed here. Callers never see the difference.
type aiUsageRepository struct {
	db      *gorm.DB
	dialect string
}

// NewAIUsageRepository creates a new AI usage repository instance
func NewAIUsageRepository(db *gorm.DB) AIUsageRepository {
	return &aiUsageRepository{db: db, dialect: db.Dialector.Name()}
}

// Record appends one usage event with the current timestamp
func (r *aiUsageRepository) Record(userID uint, action entitlements.AIAction) error {
	event := models.AIUsage{UserID: userID, Action: string(action)}
	return r.db.Create(&event).Error
}

// CountInWindow counts a user's events for one action within the window.
// Day is the backend-local calendar day; week is a strict trailing 7 days.
func (r *aiUsageRepository) CountInWindow(userID uint, action entitlements.AIAction, window entitlements.Window) (int64, error) {
	q := r.db.Model(&models.AIUsage{}).
		Where("user_id = ? AND action = ?", userID, string(action))

	switch window {
	case entitlements.WindowDay:
		if r.dialect == "mysql" {
			q = q.Where("DATE(created_at) = CURDATE()")
		} else {
			start := startOfLocalDay(time.Now())
			q = q.Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1))
		}
	case entitlements.WindowWeek:
		q = q.Where("created_at >= ?", time.Now().AddDate(0, 0, -7))
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

func startOfLocalDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
