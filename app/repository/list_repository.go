package repository

import (
	"github.com/TaskNestApp/TaskNest/app/models"
	"gorm.io/gorm"
)

// listRepository implements the ListRepository interface
type listRepository struct {
	db *gorm.DB
}

// NewListRepository creates a new list repository instance
func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

// Create creates a new list in the database
func (r *listRepository) Create(list *models.TaskList) error {
	return r.db.Create(list).Error
}

// GetByID retrieves a list by its ID
func (r *listRepository) GetByID(id uint) (*models.TaskList, error) {
	var list models.TaskList
	err := r.db.First(&list, id).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetByUserID retrieves all lists owned by a user
func (r *listRepository) GetByUserID(userID uint) ([]models.TaskList, error) {
	var lists []models.TaskList
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&lists).Error
	return lists, err
}

// Update updates an existing list in the database
func (r *listRepository) Update(list *models.TaskList) error {
	return r.db.Save(list).Error
}

// Delete soft deletes a list by its ID
func (r *listRepository) Delete(id uint) error {
	return r.db.Delete(&models.TaskList{}, id).Error
}

// CountByUserID counts a user's live lists
func (r *listRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.TaskList{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
