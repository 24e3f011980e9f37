package quota

import (
	"fmt"

	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
	"github.com/TaskNestApp/TaskNest/internal/pkg/plan"
)

// Denial codes returned to clients on a 403.
const (
	CodePlanLimitReached    = "PLAN_LIMIT_REACHED"
	CodeAILimitReached      = "AI_LIMIT_REACHED"
	CodeAINotAvailable      = "AI_NOT_AVAILABLE"
	CodeFeatureNotAvailable = "FEATURE_NOT_AVAILABLE"
)

// Decision is the outcome of one entitlement check.
type Decision struct {
	Allowed bool
	Code    string
	Reason  string
	Limit   int
	Current int64
	Plan    entitlements.Plan
	Upgrade entitlements.Plan // "" when no upgrade path applies
}

// Resolver is the effective-plan source consumed by the enforcer; satisfied
// by *plan.Service.
type Resolver interface {
	Resolve(userID uint) (entitlements.Plan, bool)
}

// Service combines the plan resolver, resource counter and AI meter into
// the limit enforcer and feature gate consulted by the request guards.
type Service struct {
	plans   Resolver
	counter *Counter
	meter   *Meter
}

// NewService creates the enforcement service.
func NewService(plans Resolver, counter *Counter, meter *Meter) *Service {
	return &Service{plans: plans, counter: counter, meter: meter}
}

var _ Resolver = (*plan.Service)(nil)

// CheckResource answers whether the user may create one more unit of a
// user-scoped resource class. The comparison is strictly count < ceiling:
// the check runs before creation, so a ceiling of 100 admits the 100th unit
// and blocks the 101st attempt.
func (s *Service) CheckResource(userID uint, rc entitlements.ResourceClass) Decision {
	effective, _ := s.plans.Resolve(userID)
	tier := entitlements.GetTier(effective)
	ceiling := tier.Limits.Ceiling(rc)

	if ceiling == entitlements.Unlimited {
		return Decision{Allowed: true, Limit: ceiling, Plan: effective}
	}

	current := s.counter.Count(rc, userID)
	if current < int64(ceiling) {
		return Decision{Allowed: true, Limit: ceiling, Current: current, Plan: effective}
	}
	return Decision{
		Allowed: false,
		Code:    CodePlanLimitReached,
		Reason:  fmt.Sprintf("Your plan allows up to %d %s", ceiling, rc),
		Limit:   ceiling,
		Current: current,
		Plan:    effective,
		Upgrade: entitlements.SuggestedUpgrade(effective),
	}
}

// CheckContainer answers whether one more unit of a container-scoped class
// may be created inside the given container. The ceiling comes from the
// requesting user's tier; the count from the container.
func (s *Service) CheckContainer(userID, containerID uint, rc entitlements.ResourceClass) Decision {
	effective, _ := s.plans.Resolve(userID)
	tier := entitlements.GetTier(effective)
	ceiling := tier.Limits.Ceiling(rc)

	if ceiling == entitlements.Unlimited {
		return Decision{Allowed: true, Limit: ceiling, Plan: effective}
	}

	current := s.counter.CountInContainer(rc, containerID)
	if current < int64(ceiling) {
		return Decision{Allowed: true, Limit: ceiling, Current: current, Plan: effective}
	}
	return Decision{
		Allowed: false,
		Code:    CodePlanLimitReached,
		Reason:  fmt.Sprintf("Your plan allows up to %d %s here", ceiling, rc),
		Limit:   ceiling,
		Current: current,
		Plan:    effective,
		Upgrade: entitlements.SuggestedUpgrade(effective),
	}
}

// CheckAI answers whether the user may invoke an AI action now. Tiers
// without AI deny with a distinct code and always suggest pro; metered
// tiers apply the per-action allowance over its window. A -1 allowance
// skips counting entirely.
func (s *Service) CheckAI(userID uint, action entitlements.AIAction) Decision {
	effective, _ := s.plans.Resolve(userID)
	tier := entitlements.GetTier(effective)

	if !tier.AI.Enabled {
		return Decision{
			Allowed: false,
			Code:    CodeAINotAvailable,
			Reason:  "AI assist is not available on your plan",
			Plan:    effective,
			Upgrade: entitlements.PlanPro,
		}
	}

	allowance, ok := tier.AI.Allowances[action]
	if !ok {
		return Decision{
			Allowed: false,
			Code:    CodeAINotAvailable,
			Reason:  "AI assist is not available on your plan",
			Plan:    effective,
			Upgrade: entitlements.PlanPro,
		}
	}

	if allowance.Limit == entitlements.Unlimited {
		return Decision{Allowed: true, Limit: allowance.Limit, Plan: effective}
	}

	current := s.meter.CountUsage(userID, action, allowance.Window)
	if current < int64(allowance.Limit) {
		return Decision{Allowed: true, Limit: allowance.Limit, Current: current, Plan: effective}
	}
	return Decision{
		Allowed: false,
		Code:    CodeAILimitReached,
		Reason:  fmt.Sprintf("AI %s limit of %d per %s reached", action, allowance.Limit, allowance.Window),
		Limit:   allowance.Limit,
		Current: current,
		Plan:    effective,
		Upgrade: entitlements.SuggestedUpgrade(effective),
	}
}

// HasFeature reduces a tier feature to pass/fail for the user's effective
// plan. Unknown feature names are off, never an error.
func (s *Service) HasFeature(userID uint, name string) bool {
	effective, _ := s.plans.Resolve(userID)
	return entitlements.GetTier(effective).HasFeature(name)
}

// FeatureLevel exposes the raw feature value (level enum or count) for the
// user's effective plan.
func (s *Service) FeatureLevel(userID uint, name string) any {
	effective, _ := s.plans.Resolve(userID)
	return entitlements.GetTier(effective).FeatureLevel(name)
}

// RecordAIUsage forwards to the meter; exported for the deferred recorder
// the AI guard hands to downstream handlers.
func (s *Service) RecordAIUsage(userID uint, action entitlements.AIAction) {
	s.meter.RecordUsage(userID, action)
}

// CountUsage exposes the meter for the usage snapshot endpoint.
func (s *Service) CountUsage(userID uint, action entitlements.AIAction, window entitlements.Window) int64 {
	return s.meter.CountUsage(userID, action, window)
}

// Count exposes the counter for the usage snapshot endpoint.
func (s *Service) Count(rc entitlements.ResourceClass, userID uint) int64 {
	return s.counter.Count(rc, userID)
}
