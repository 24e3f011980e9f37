package repository

import (
	"time"

	"github.com/TaskNestApp/TaskNest/app/models"
	"gorm.io/gorm"
)

// taskRepository implements the TaskRepository interface
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository instance
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create creates a new task in the database
func (r *taskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *taskRepository) GetByID(id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetByUUID retrieves a task by its public identifier
func (r *taskRepository) GetByUUID(uuid string) (*models.Task, error) {
	var task models.Task
	err := r.db.Where("uuid = ?", uuid).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetByUserID retrieves a paginated list of a user's tasks
func (r *taskRepository) GetByUserID(userID uint, offset, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&tasks).Error
	return tasks, err
}

// Update updates an existing task in the database
func (r *taskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task by its ID
func (r *taskRepository) Delete(id uint) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// CountActiveByUserID counts a user's live tasks. Completed tasks do not
// count toward the plan ceiling; soft-deleted rows are excluded by GORM.
func (r *taskRepository) CountActiveByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND status <> ?", userID, models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}

// CountCompletedByUserID counts a user's completed tasks.
func (r *taskRepository) CountCompletedByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND status = ?", userID, models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}

// CountCompletedSince counts tasks completed within the trailing n days.
func (r *taskRepository) CountCompletedSince(userID uint, days int) (int64, error) {
	var count int64
	since := time.Now().AddDate(0, 0, -days)
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND status = ? AND completed_at >= ?", userID, models.TaskStatusCompleted, since).
		Count(&count).Error
	return count, err
}
