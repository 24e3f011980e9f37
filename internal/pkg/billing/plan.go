package billing

import (
	"strings"

	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
)

// resolvePlanRef maps a provider plan reference to an internal plan. Plan refs
// are configured at the provider as "tasknest-pro" / "tasknest-promax"; bare
// plan names are accepted too.
func resolvePlanRef(ref string) entitlements.Plan {
	switch strings.ToLower(strings.TrimSpace(ref)) {
	case "tasknest-pro", "pro":
		return entitlements.PlanPro
	case "tasknest-promax", "promax":
		return entitlements.PlanProMax
	default:
		return entitlements.PlanNormal
	}
}

func isEntitlingStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "trialing", "past_due":
		return true
	default:
		return false
	}
}
