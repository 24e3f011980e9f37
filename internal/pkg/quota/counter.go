package quota

import (
	"log"

	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
)

// Counter derives live resource counts on demand; counts are never stored.
// A storage error yields 0: ceilings compare as count < limit, so a
// miscounted zero never blocks a user, at the cost of possibly letting a
// creation through.
type Counter struct {
	tasks    repository.TaskRepository
	lists    repository.ListRepository
	sections repository.SectionRepository
	subtasks repository.SubtaskRepository
}

// NewCounter creates a counter over the resource repositories.
func NewCounter(repos *repository.Repositories) *Counter {
	return &Counter{
		tasks:    repos.Task,
		lists:    repos.List,
		sections: repos.Section,
		subtasks: repos.Subtask,
	}
}

// Count returns the number of live instances of a user-scoped resource
// class. Tasks count only non-terminal rows.
func (c *Counter) Count(rc entitlements.ResourceClass, userID uint) int64 {
	var n int64
	var err error
	switch rc {
	case entitlements.ResourceTasks:
		n, err = c.tasks.CountActiveByUserID(userID)
	case entitlements.ResourceLists:
		n, err = c.lists.CountByUserID(userID)
	case entitlements.ResourceSections, entitlements.ResourceSubtasks:
		// Container-scoped classes have no per-user count.
		return 0
	}
	if err != nil {
		log.Printf("quota: counting %s for user %d failed, treating as 0: %v", rc, userID, err)
		return 0
	}
	return n
}

// CountInContainer returns the number of live instances of a
// container-scoped resource class within its parent (sections within a
// list, subtasks within a task).
func (c *Counter) CountInContainer(rc entitlements.ResourceClass, containerID uint) int64 {
	var n int64
	var err error
	switch rc {
	case entitlements.ResourceSections:
		n, err = c.sections.CountByListID(containerID)
	case entitlements.ResourceSubtasks:
		n, err = c.subtasks.CountByTaskID(containerID)
	case entitlements.ResourceTasks, entitlements.ResourceLists:
		return 0
	}
	if err != nil {
		log.Printf("quota: counting %s in container %d failed, treating as 0: %v", rc, containerID, err)
		return 0
	}
	return n
}
