package repository

import (
	"github.com/TaskNestApp/TaskNest/app/models"
	"gorm.io/gorm"
)

// subtaskRepository implements the SubtaskRepository interface
type subtaskRepository struct {
	db *gorm.DB
}

// NewSubtaskRepository creates a new subtask repository instance
func NewSubtaskRepository(db *gorm.DB) SubtaskRepository {
	return &subtaskRepository{db: db}
}

// Create creates a new subtask in the database
func (r *subtaskRepository) Create(subtask *models.Subtask) error {
	return r.db.Create(subtask).Error
}

// GetByTaskID retrieves all subtasks of a task
func (r *subtaskRepository) GetByTaskID(taskID uint) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	err := r.db.Where("task_id = ?", taskID).Order("created_at ASC").Find(&subtasks).Error
	return subtasks, err
}

// Update updates an existing subtask in the database
func (r *subtaskRepository) Update(subtask *models.Subtask) error {
	return r.db.Save(subtask).Error
}

// Delete soft deletes a subtask by its ID
func (r *subtaskRepository) Delete(id uint) error {
	return r.db.Delete(&models.Subtask{}, id).Error
}

// CountByTaskID counts live subtasks within a task
func (r *subtaskRepository) CountByTaskID(taskID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subtask{}).Where("task_id = ?", taskID).Count(&count).Error
	return count, err
}
