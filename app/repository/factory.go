package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetTaskRepository returns the task repository instance
func (f *Factory) GetTaskRepository() TaskRepository {
	return f.GetRepositories().Task
}

// GetListRepository returns the list repository instance
func (f *Factory) GetListRepository() ListRepository {
	return f.GetRepositories().List
}

// GetSectionRepository returns the section repository instance
func (f *Factory) GetSectionRepository() SectionRepository {
	return f.GetRepositories().Section
}

// GetSubtaskRepository returns the subtask repository instance
func (f *Factory) GetSubtaskRepository() SubtaskRepository {
	return f.GetRepositories().Subtask
}

// GetAIUsageRepository returns the AI usage repository instance
func (f *Factory) GetAIUsageRepository() AIUsageRepository {
	return f.GetRepositories().AIUsage
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
