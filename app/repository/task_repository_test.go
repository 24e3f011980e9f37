package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TaskNestApp/TaskNest/app/models"
)

func newTaskTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Task{}, &models.TaskList{}, &models.Section{}, &models.Subtask{}))
	return db
}

func TestCountActiveExcludesCompletedAndDeleted(t *testing.T) {
	db := newTaskTestDB(t)
	repo := NewTaskRepository(db)

	open := &models.Task{UserID: 1, Title: "open", Status: models.TaskStatusOpen}
	inProgress := &models.Task{UserID: 1, Title: "wip", Status: models.TaskStatusInProgress}
	completed := &models.Task{UserID: 1, Title: "done", Status: models.TaskStatusOpen}
	deleted := &models.Task{UserID: 1, Title: "gone", Status: models.TaskStatusOpen}
	other := &models.Task{UserID: 2, Title: "theirs", Status: models.TaskStatusOpen}

	for _, task := range []*models.Task{open, inProgress, completed, deleted, other} {
		require.NoError(t, repo.Create(task))
	}

	completed.Complete()
	require.NoError(t, repo.Update(completed))
	require.NoError(t, repo.Delete(deleted.ID))

	count, err := repo.CountActiveByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// completing a task frees ceiling headroom
	inProgress.Complete()
	require.NoError(t, repo.Update(inProgress))

	count, err = repo.CountActiveByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	done, err := repo.CountCompletedByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), done)
}

func TestTaskUUIDAssignedOnCreate(t *testing.T) {
	db := newTaskTestDB(t)
	repo := NewTaskRepository(db)

	task := &models.Task{UserID: 1, Title: "t", Status: models.TaskStatusOpen}
	require.NoError(t, repo.Create(task))
	require.NotEmpty(t, task.UUID)

	fetched, err := repo.GetByUUID(task.UUID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, fetched.ID)
}

func TestContainerCounts(t *testing.T) {
	db := newTaskTestDB(t)
	sections := NewSectionRepository(db)
	subtasks := NewSubtaskRepository(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, sections.Create(&models.Section{ListID: 10, Name: "s", Position: i}))
	}
	require.NoError(t, sections.Create(&models.Section{ListID: 11, Name: "other"}))

	count, err := sections.CountByListID(10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, subtasks.Create(&models.Subtask{TaskID: 5, Title: "st"}))
	count, err = subtasks.CountByTaskID(5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = subtasks.CountByTaskID(6)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
