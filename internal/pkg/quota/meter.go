package quota

import (
	"log"

	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
)

// Meter counts and records AI usage events. Counting errors resolve to 0
// and recording errors are swallowed: a failed usage write must never fail
// or roll back the AI action it follows.
type Meter struct {
	usage repository.AIUsageRepository
}

// NewMeter creates a meter over the AI usage repository.
func NewMeter(usage repository.AIUsageRepository) *Meter {
	return &Meter{usage: usage}
}

// CountUsage returns the user's event count for one action within the
// window (calendar day or trailing 7 days).
func (m *Meter) CountUsage(userID uint, action entitlements.AIAction, window entitlements.Window) int64 {
	n, err := m.usage.CountInWindow(userID, action, window)
	if err != nil {
		log.Printf("quota: counting ai usage %s for user %d failed, treating as 0: %v", action, userID, err)
		return 0
	}
	return n
}

// RecordUsage appends one usage event. Callers invoke this only after the
// guarded AI action succeeded; quota is never charged for failed actions.
func (m *Meter) RecordUsage(userID uint, action entitlements.AIAction) {
	if err := m.usage.Record(userID, action); err != nil {
		log.Printf("quota: recording ai usage %s for user %d failed: %v", action, userID, err)
	}
}
