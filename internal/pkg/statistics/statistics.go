package statistics

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/cache"
)

const (
	CacheKeyOpenTasks      = "statistics:user:%d:open"
	CacheKeyCompletedTotal = "statistics:user:%d:completed"
	CacheKeyCompletedWeek  = "statistics:user:%d:completed:week"
	CacheExpiration        = 5 * time.Minute
)

// Depth levels mirror the tiers' statistics feature value.
const (
	DepthBasic    = "basic"
	DepthAdvanced = "advanced"
	DepthComplete = "complete"
)

// Summary holds per-user productivity statistics. Fields beyond the basic
// counters are populated only for the deeper levels.
type Summary struct {
	Depth          string  `json:"depth"`
	OpenTasks      int64   `json:"open_tasks"`
	CompletedTotal int64   `json:"completed_total,omitempty"`
	CompletedWeek  int64   `json:"completed_week,omitempty"`
	CompletionRate float64 `json:"completion_rate,omitempty"`
}

// BuildSummary computes the statistics for one user at the given depth,
// serving counters from Redis when fresh.
func BuildSummary(repos *repository.Repositories, userID uint, depth string) Summary {
	s := Summary{Depth: depth}
	s.OpenTasks = cachedCount(fmt.Sprintf(CacheKeyOpenTasks, userID), func() (int64, error) {
		return repos.Task.CountActiveByUserID(userID)
	})

	if depth == DepthBasic {
		return s
	}

	s.CompletedTotal = cachedCount(fmt.Sprintf(CacheKeyCompletedTotal, userID), func() (int64, error) {
		return repos.Task.CountCompletedByUserID(userID)
	})
	s.CompletedWeek = cachedCount(fmt.Sprintf(CacheKeyCompletedWeek, userID), func() (int64, error) {
		return repos.Task.CountCompletedSince(userID, 7)
	})

	if depth == DepthComplete {
		if total := s.OpenTasks + s.CompletedTotal; total > 0 {
			s.CompletionRate = float64(s.CompletedTotal) / float64(total)
		}
	}
	return s
}

// cachedCount serves a counter from Redis, falling back to the database and
// refreshing the cache on a miss.
func cachedCount(key string, load func() (int64, error)) int64 {
	if n, err := cache.GetInt(key); err == nil {
		return int64(n)
	}

	n, err := load()
	if err != nil {
		log.Printf("statistics: loading %s failed: %v", key, err)
		return 0
	}
	if err := cache.Set(key, strconv.FormatInt(n, 10), CacheExpiration); err != nil {
		log.Printf("statistics: caching %s failed: %v", key, err)
	}
	return n
}
