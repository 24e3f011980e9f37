package statistics

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/cache"
)

func setupStats(t *testing.T) (*repository.Repositories, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Setenv("CACHE_HOST", mr.Host())
	t.Setenv("CACHE_PORT", mr.Port())
	cache.SetupCache()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Task{}))
	return repository.NewRepositories(db), db, mr
}

func createTask(t *testing.T, db *gorm.DB, userID uint, completed bool) {
	t.Helper()
	task := models.Task{UserID: userID, Title: "t", Status: models.TaskStatusOpen}
	if completed {
		now := time.Now()
		task.Status = models.TaskStatusCompleted
		task.CompletedAt = &now
	}
	require.NoError(t, db.Create(&task).Error)
}

func TestBuildSummaryBasicOmitsDeeperCounters(t *testing.T) {
	repos, db, _ := setupStats(t)
	createTask(t, db, 1, false)
	createTask(t, db, 1, false)
	createTask(t, db, 1, true)

	s := BuildSummary(repos, 1, DepthBasic)
	assert.Equal(t, DepthBasic, s.Depth)
	assert.Equal(t, int64(2), s.OpenTasks)
	assert.Zero(t, s.CompletedTotal)
	assert.Zero(t, s.CompletionRate)
}

func TestBuildSummaryCompleteComputesRate(t *testing.T) {
	repos, db, _ := setupStats(t)
	createTask(t, db, 2, false)
	createTask(t, db, 2, false)
	createTask(t, db, 2, true)

	s := BuildSummary(repos, 2, DepthComplete)
	assert.Equal(t, int64(2), s.OpenTasks)
	assert.Equal(t, int64(1), s.CompletedTotal)
	assert.Equal(t, int64(1), s.CompletedWeek)
	assert.InDelta(t, 1.0/3.0, s.CompletionRate, 0.0001)
}

func TestCountersServedFromCacheUntilExpiry(t *testing.T) {
	repos, db, mr := setupStats(t)
	createTask(t, db, 3, false)
	createTask(t, db, 3, false)

	s := BuildSummary(repos, 3, DepthBasic)
	require.Equal(t, int64(2), s.OpenTasks)

	// A write between summaries is invisible while the counter is cached.
	createTask(t, db, 3, false)
	s = BuildSummary(repos, 3, DepthBasic)
	assert.Equal(t, int64(2), s.OpenTasks)

	mr.FastForward(CacheExpiration + time.Second)
	s = BuildSummary(repos, 3, DepthBasic)
	assert.Equal(t, int64(3), s.OpenTasks)
}
