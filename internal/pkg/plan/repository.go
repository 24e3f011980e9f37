package plan

import (
	"github.com/TaskNestApp/TaskNest/app/models"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the plan service.
type Repository interface {
	GetOrCreate(userID uint) (*models.UserPlan, error)
	Save(up *models.UserPlan) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a plan repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetOrCreate(userID uint) (*models.UserPlan, error) {
	return models.GetOrCreateUserPlan(r.db, userID)
}

func (r *gormRepository) Save(up *models.UserPlan) error {
	return r.db.Save(up).Error
}
