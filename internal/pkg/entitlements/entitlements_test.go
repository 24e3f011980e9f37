package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogCeilings(t *testing.T) {
	tests := []struct {
		plan     Plan
		resource ResourceClass
		want     int
	}{
		{PlanNormal, ResourceTasks, 100},
		{PlanNormal, ResourceLists, 5},
		{PlanNormal, ResourceSections, 3},
		{PlanNormal, ResourceSubtasks, 5},
		{PlanPro, ResourceTasks, 500},
		{PlanPro, ResourceLists, 20},
		{PlanPro, ResourceSections, 10},
		{PlanPro, ResourceSubtasks, 20},
		{PlanProMax, ResourceTasks, Unlimited},
		{PlanProMax, ResourceLists, Unlimited},
		{PlanProMax, ResourceSections, Unlimited},
		{PlanProMax, ResourceSubtasks, Unlimited},
	}

	for _, tt := range tests {
		got := GetTier(tt.plan).Limits.Ceiling(tt.resource)
		assert.Equal(t, tt.want, got, "%s/%s", tt.plan, tt.resource)
	}
}

func TestGetTierUnknownPlanFallsBackToNormal(t *testing.T) {
	tier := GetTier(Plan("enterprise"))
	assert.Equal(t, PlanNormal, tier.ID)

	tier = GetTier(Plan(""))
	assert.Equal(t, PlanNormal, tier.ID)
}

func TestNormalizePlan(t *testing.T) {
	assert.Equal(t, PlanPro, NormalizePlan("pro"))
	assert.Equal(t, PlanPro, NormalizePlan("  PRO "))
	assert.Equal(t, PlanProMax, NormalizePlan("promax"))
	assert.Equal(t, PlanNormal, NormalizePlan("something-else"))
	assert.Equal(t, PlanNormal, NormalizePlan(""))
}

func TestAIAllowances(t *testing.T) {
	normal := GetTier(PlanNormal)
	assert.False(t, normal.AI.Enabled)
	assert.Empty(t, normal.AI.Allowances)

	pro := GetTier(PlanPro)
	assert.True(t, pro.AI.Enabled)
	assert.Equal(t, Allowance{Limit: 5, Window: WindowWeek}, pro.AI.Allowances[AIActionRoutine])
	assert.Equal(t, Allowance{Limit: 10, Window: WindowDay}, pro.AI.Allowances[AIActionDescription])
	assert.Equal(t, Allowance{Limit: 5, Window: WindowDay}, pro.AI.Allowances[AIActionSubtask])

	promax := GetTier(PlanProMax)
	assert.True(t, promax.AI.Enabled)
	for action, a := range promax.AI.Allowances {
		assert.Equal(t, Unlimited, a.Limit, string(action))
	}
}

func TestParseResourceClass(t *testing.T) {
	rc, ok := ParseResourceClass("tasks")
	assert.True(t, ok)
	assert.Equal(t, ResourceTasks, rc)

	rc, ok = ParseResourceClass(" Subtasks ")
	assert.True(t, ok)
	assert.Equal(t, ResourceSubtasks, rc)

	_, ok = ParseResourceClass("projects")
	assert.False(t, ok)
}

func TestContainerScoped(t *testing.T) {
	assert.False(t, ResourceTasks.ContainerScoped())
	assert.False(t, ResourceLists.ContainerScoped())
	assert.True(t, ResourceSections.ContainerScoped())
	assert.True(t, ResourceSubtasks.ContainerScoped())
}

func TestFeatureEnabled(t *testing.T) {
	assert.True(t, FeatureEnabled(true))
	assert.False(t, FeatureEnabled(false))
	assert.True(t, FeatureEnabled(5))
	assert.True(t, FeatureEnabled(Unlimited))
	assert.False(t, FeatureEnabled(0))
	assert.True(t, FeatureEnabled("advanced"))
	assert.False(t, FeatureEnabled("none"))
	assert.False(t, FeatureEnabled(""))
	assert.False(t, FeatureEnabled(nil))
}

func TestTierFeatures(t *testing.T) {
	assert.False(t, GetTier(PlanNormal).HasFeature("kanban"))
	assert.True(t, GetTier(PlanPro).HasFeature("kanban"))
	assert.False(t, GetTier(PlanPro).HasFeature("does-not-exist"))

	assert.Equal(t, "basic", GetTier(PlanNormal).FeatureLevel("statistics"))
	assert.Equal(t, "advanced", GetTier(PlanPro).FeatureLevel("statistics"))
	assert.Equal(t, "complete", GetTier(PlanProMax).FeatureLevel("statistics"))
}

func TestSuggestedUpgrade(t *testing.T) {
	assert.Equal(t, PlanPro, SuggestedUpgrade(PlanNormal))
	assert.Equal(t, PlanProMax, SuggestedUpgrade(PlanPro))
	assert.Equal(t, Plan(""), SuggestedUpgrade(PlanProMax))
}

func TestAllTiersOrderedByRank(t *testing.T) {
	tiers := AllTiers()
	assert.Len(t, tiers, 3)
	assert.Equal(t, PlanNormal, tiers[0].ID)
	assert.Equal(t, PlanPro, tiers[1].ID)
	assert.Equal(t, PlanProMax, tiers[2].ID)
}
