package plan

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
)

// Service resolves a user's effective plan and applies the lazy
// expiry-driven downgrade. Upgrade and Cancel write through the same
// repository; they are trust-boundary operations, the guards never call them.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a plan service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceFromDB creates a plan service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// Resolve returns the effective plan for a user and whether it is a paid
// tier. An expired stored plan is rewritten to normal before returning.
// Storage errors resolve to normal: ambiguity never grants paid
// entitlements.
func (s *Service) Resolve(userID uint) (entitlements.Plan, bool) {
	state, err := s.repo.GetOrCreate(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("plan: resolve failed for user %d, treating as normal: %v", userID, err)
		}
		return entitlements.PlanNormal, false
	}

	if state.IsExpired(s.now()) {
		state.Plan = string(entitlements.PlanNormal)
		state.ExpiresAt = nil
		if err := s.repo.Save(state); err != nil {
			// The downgrade is re-derived on every read, so a failed write
			// only delays persistence.
			log.Printf("plan: persisting downgrade failed for user %d: %v", userID, err)
		}
		return entitlements.PlanNormal, false
	}

	effective := entitlements.NormalizePlan(state.Plan)
	return effective, effective != entitlements.PlanNormal
}

// Tier resolves the user's effective plan and returns its full definition.
func (s *Service) Tier(userID uint) entitlements.Tier {
	p, _ := s.Resolve(userID)
	return entitlements.GetTier(p)
}

// Upgrade sets the stored plan with an expiry of months x 30 days from now.
func (s *Service) Upgrade(userID uint, p entitlements.Plan, months int) error {
	if p != entitlements.PlanPro && p != entitlements.PlanProMax {
		return errors.New("plan: upgrade target must be a paid tier")
	}
	if months < 1 {
		months = 1
	}

	state, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return err
	}
	expires := s.now().AddDate(0, 0, months*30)
	state.Plan = string(p)
	state.ExpiresAt = &expires
	return s.repo.Save(state)
}

// Cancel resets the stored plan to normal and clears the expiry.
func (s *Service) Cancel(userID uint) error {
	state, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return err
	}
	state.Plan = string(entitlements.PlanNormal)
	state.ExpiresAt = nil
	return s.repo.Save(state)
}

// ExpiresAt exposes the stored expiry for the plan snapshot endpoint.
func (s *Service) ExpiresAt(userID uint) *time.Time {
	state, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return nil
	}
	return state.ExpiresAt
}
