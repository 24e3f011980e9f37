package repository

import (
	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
}

// TaskRepository defines the interface for task-related database operations.
// CountActiveByUserID is the ceiling-check count source: it excludes tasks in
// the terminal state and soft-deleted rows.
type TaskRepository interface {
	Create(task *models.Task) error
	GetByID(id uint) (*models.Task, error)
	GetByUUID(uuid string) (*models.Task, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Task, error)
	Update(task *models.Task) error
	Delete(id uint) error
	CountActiveByUserID(userID uint) (int64, error)
	CountCompletedByUserID(userID uint) (int64, error)
	CountCompletedSince(userID uint, days int) (int64, error)
}

// ListRepository defines the interface for list-related database operations
type ListRepository interface {
	Create(list *models.TaskList) error
	GetByID(id uint) (*models.TaskList, error)
	GetByUserID(userID uint) ([]models.TaskList, error)
	Update(list *models.TaskList) error
	Delete(id uint) error
	CountByUserID(userID uint) (int64, error)
}

// SectionRepository defines the interface for section-related database operations
type SectionRepository interface {
	Create(section *models.Section) error
	GetByListID(listID uint) ([]models.Section, error)
	Update(section *models.Section) error
	Delete(id uint) error
	CountByListID(listID uint) (int64, error)
}

// SubtaskRepository defines the interface for subtask-related database operations
type SubtaskRepository interface {
	Create(subtask *models.Subtask) error
	GetByTaskID(taskID uint) ([]models.Subtask, error)
	Update(subtask *models.Subtask) error
	Delete(id uint) error
	CountByTaskID(taskID uint) (int64, error)
}

// AIUsageRepository appends and counts AI usage events. CountInWindow hides
// the backend dialect: day is the backend-local calendar day, week a strict
// trailing 7 days.
type AIUsageRepository interface {
	Record(userID uint, action entitlements.AIAction) error
	CountInWindow(userID uint, action entitlements.AIAction, window entitlements.Window) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User    UserRepository
	Task    TaskRepository
	List    ListRepository
	Section SectionRepository
	Subtask SubtaskRepository
	AIUsage AIUsageRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Task:    NewTaskRepository(db),
		List:    NewListRepository(db),
		Section: NewSectionRepository(db),
		Subtask: NewSubtaskRepository(db),
		AIUsage: NewAIUsageRepository(db),
	}
}
