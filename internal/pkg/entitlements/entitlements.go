package entitlements

import "strings"

type Plan string

const (
	PlanNormal Plan = "normal"
	PlanPro    Plan = "pro"
	PlanProMax Plan = "promax"
)

// Unlimited marks a ceiling that never denies, regardless of current count.
const Unlimited = -1

// ResourceClass identifies a countable resource guarded by plan ceilings.
type ResourceClass int

const (
	ResourceTasks ResourceClass = iota
	ResourceLists
	ResourceSections
	ResourceSubtasks
)

// String returns the wire name of the resource class.
func (rc ResourceClass) String() string {
	switch rc {
	case ResourceTasks:
		return "tasks"
	case ResourceLists:
		return "lists"
	case ResourceSections:
		return "sections"
	case ResourceSubtasks:
		return "subtasks"
	}
	return "unknown"
}

// ParseResourceClass maps a wire name back to a resource class.
func ParseResourceClass(s string) (ResourceClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tasks":
		return ResourceTasks, true
	case "lists":
		return ResourceLists, true
	case "sections":
		return ResourceSections, true
	case "subtasks":
		return ResourceSubtasks, true
	}
	return 0, false
}

// ContainerScoped reports whether the class is counted inside a parent
// container (sections within a list, subtasks within a task) rather than
// per user.
func (rc ResourceClass) ContainerScoped() bool {
	return rc == ResourceSections || rc == ResourceSubtasks
}

// AIAction identifies a metered AI assist action.
type AIAction string

const (
	AIActionRoutine     AIAction = "routine"
	AIActionDescription AIAction = "description"
	AIActionSubtask     AIAction = "subtask"
)

// ParseAIAction maps a wire name to an AI action.
func ParseAIAction(s string) (AIAction, bool) {
	switch AIAction(strings.ToLower(strings.TrimSpace(s))) {
	case AIActionRoutine:
		return AIActionRoutine, true
	case AIActionDescription:
		return AIActionDescription, true
	case AIActionSubtask:
		return AIActionSubtask, true
	}
	return "", false
}

// Window is the time range an AI allowance is counted over. Day is a
// calendar-day window (resets at local midnight); Week is a strict
// trailing-7-days rolling window. The two are intentionally different.
type Window string

const (
	WindowDay  Window = "day"
	WindowWeek Window = "week"
)

// Allowance is the per-action AI ceiling and its counting window.
type Allowance struct {
	Limit  int    `json:"limit"`
	Window Window `json:"window"`
}

// Limits holds the per-tier ceilings for all countable resource classes.
type Limits struct {
	Tasks           int `json:"tasks"`
	Lists           int `json:"lists"`
	SectionsPerList int `json:"sections_per_list"`
	SubtasksPerTask int `json:"subtasks_per_task"`
}

// Ceiling returns the ceiling for a resource class. The switch is
// exhaustive over ResourceClass so adding a class is a compile-time change.
func (l Limits) Ceiling(rc ResourceClass) int {
	switch rc {
	case ResourceTasks:
		return l.Tasks
	case ResourceLists:
		return l.Lists
	case ResourceSections:
		return l.SectionsPerList
	case ResourceSubtasks:
		return l.SubtasksPerTask
	}
	return 0
}

// AIAllowance holds the per-tier AI policy.
type AIAllowance struct {
	Enabled    bool                   `json:"enabled"`
	Allowances map[AIAction]Allowance `json:"allowances,omitempty"`
}

// NotificationPolicy is carried through as opaque tier config; delivery is
// handled outside this subsystem.
type NotificationPolicy struct {
	Email    bool `json:"email"`
	WhatsApp bool `json:"whatsapp"`
}

// Tier is a fully specified, immutable plan definition.
type Tier struct {
	ID            Plan               `json:"id"`
	Name          string             `json:"name"`
	PriceEUR      float64            `json:"price_eur"`
	Limits        Limits             `json:"limits"`
	Features      map[string]any     `json:"features"`
	AI            AIAllowance        `json:"ai"`
	Notifications NotificationPolicy `json:"notifications"`
}

var catalog = map[Plan]Tier{
	PlanNormal: {
		ID:       PlanNormal,
		Name:     "Normal",
		PriceEUR: 0,
		Limits: Limits{
			Tasks:           100,
			Lists:           5,
			SectionsPerList: 3,
			SubtasksPerTask: 5,
		},
		Features: map[string]any{
			"kanban":       false,
			"statistics":   "basic",
			"customColors": 0,
		},
		AI:            AIAllowance{Enabled: false},
		Notifications: NotificationPolicy{Email: true},
	},
	PlanPro: {
		ID:       PlanPro,
		Name:     "Pro",
		PriceEUR: 9.90,
		Limits: Limits{
			Tasks:           500,
			Lists:           20,
			SectionsPerList: 10,
			SubtasksPerTask: 20,
		},
		Features: map[string]any{
			"kanban":       true,
			"statistics":   "advanced",
			"customColors": 5,
		},
		AI: AIAllowance{
			Enabled: true,
			Allowances: map[AIAction]Allowance{
				AIActionRoutine:     {Limit: 5, Window: WindowWeek},
				AIActionDescription: {Limit: 10, Window: WindowDay},
				AIActionSubtask:     {Limit: 5, Window: WindowDay},
			},
		},
		Notifications: NotificationPolicy{Email: true, WhatsApp: true},
	},
	PlanProMax: {
		ID:       PlanProMax,
		Name:     "Pro Max",
		PriceEUR: 19.90,
		Limits: Limits{
			Tasks:           Unlimited,
			Lists:           Unlimited,
			SectionsPerList: Unlimited,
			SubtasksPerTask: Unlimited,
		},
		Features: map[string]any{
			"kanban":       true,
			"statistics":   "complete",
			"customColors": Unlimited,
		},
		AI: AIAllowance{
			Enabled: true,
			Allowances: map[AIAction]Allowance{
				AIActionRoutine:     {Limit: Unlimited, Window: WindowWeek},
				AIActionDescription: {Limit: Unlimited, Window: WindowDay},
				AIActionSubtask:     {Limit: Unlimited, Window: WindowDay},
			},
		},
		Notifications: NotificationPolicy{Email: true, WhatsApp: true},
	},
}

// GetTier returns the tier definition for a plan. Unknown plans resolve to
// the normal tier so a bad stored value never grants paid entitlements.
func GetTier(p Plan) Tier {
	if t, ok := catalog[NormalizePlan(string(p))]; ok {
		return t
	}
	return catalog[PlanNormal]
}

// AllTiers returns every tier in ascending rank order.
func AllTiers() []Tier {
	return []Tier{catalog[PlanNormal], catalog[PlanPro], catalog[PlanProMax]}
}

// NormalizePlan folds arbitrary stored plan strings onto the closed enum.
func NormalizePlan(plan string) Plan {
	switch Plan(strings.ToLower(strings.TrimSpace(plan))) {
	case PlanPro:
		return PlanPro
	case PlanProMax:
		return PlanProMax
	default:
		return PlanNormal
	}
}

// PlanRank orders plans for upgrade suggestions.
func PlanRank(p Plan) int {
	switch p {
	case PlanProMax:
		return 2
	case PlanPro:
		return 1
	default:
		return 0
	}
}

// SuggestedUpgrade returns the next tier up, or "" for promax.
func SuggestedUpgrade(p Plan) Plan {
	switch p {
	case PlanNormal:
		return PlanPro
	case PlanPro:
		return PlanProMax
	default:
		return ""
	}
}

// FeatureEnabled reports the binary pass/fail of a feature value: booleans
// as-is, numbers and enum strings by truthiness. Unknown features are off.
func FeatureEnabled(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val != 0
	case float64:
		return val != 0
	case string:
		return val != "" && val != "none"
	case nil:
		return false
	}
	return false
}

// HasFeature looks up a feature flag on a tier and reduces it to pass/fail.
func (t Tier) HasFeature(name string) bool {
	v, ok := t.Features[name]
	if !ok {
		return false
	}
	return FeatureEnabled(v)
}

// FeatureLevel exposes the raw feature value (level enum or count) for UI
// purposes; nil when the feature is unknown.
func (t Tier) FeatureLevel(name string) any {
	return t.Features[name]
}
