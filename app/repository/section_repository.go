package repository

import (
	"github.com/TaskNestApp/TaskNest/app/models"
	"gorm.io/gorm"
)

// sectionRepository implements the SectionRepository interface
type sectionRepository struct {
	db *gorm.DB
}

// NewSectionRepository creates a new section repository instance
func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

// Create creates a new section in the database
func (r *sectionRepository) Create(section *models.Section) error {
	return r.db.Create(section).Error
}

// GetByListID retrieves all sections of a list ordered by position
func (r *sectionRepository) GetByListID(listID uint) ([]models.Section, error) {
	var sections []models.Section
	err := r.db.Where("list_id = ?", listID).Order("position ASC").Find(&sections).Error
	return sections, err
}

// Update updates an existing section in the database
func (r *sectionRepository) Update(section *models.Section) error {
	return r.db.Save(section).Error
}

// Delete soft deletes a section by its ID
func (r *sectionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Section{}, id).Error
}

// CountByListID counts live sections within a list
func (r *sectionRepository) CountByListID(listID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Section{}).Where("list_id = ?", listID).Count(&count).Error
	return count, err
}
