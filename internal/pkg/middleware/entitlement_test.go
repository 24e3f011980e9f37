package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
	"github.com/TaskNestApp/TaskNest/internal/pkg/quota"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

type fakeEnforcer struct {
	resource quota.Decision
	ai       quota.Decision
	feature  bool
	panics   bool
	recorded []entitlements.AIAction
}

func (f *fakeEnforcer) CheckResource(userID uint, rc entitlements.ResourceClass) quota.Decision {
	if f.panics {
		panic("enforcer down")
	}
	return f.resource
}

func (f *fakeEnforcer) CheckContainer(userID, containerID uint, rc entitlements.ResourceClass) quota.Decision {
	if f.panics {
		panic("enforcer down")
	}
	return f.resource
}

func (f *fakeEnforcer) CheckAI(userID uint, action entitlements.AIAction) quota.Decision {
	if f.panics {
		panic("enforcer down")
	}
	return f.ai
}

func (f *fakeEnforcer) HasFeature(userID uint, name string) bool {
	if f.panics {
		panic("enforcer down")
	}
	return f.feature
}

func (f *fakeEnforcer) RecordAIUsage(userID uint, action entitlements.AIAction) {
	f.recorded = append(f.recorded, action)
}

func allowDecision() quota.Decision {
	return quota.Decision{Allowed: true, Limit: 100, Current: 1, Plan: entitlements.PlanNormal}
}

func denyDecision() quota.Decision {
	return quota.Decision{
		Allowed: false,
		Code:    quota.CodePlanLimitReached,
		Reason:  "Your plan allows up to 100 tasks",
		Limit:   100,
		Current: 100,
		Plan:    entitlements.PlanNormal,
		Upgrade: entitlements.PlanPro,
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, body map[string]any) (int, DenialResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var denial DenialResponse
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		_ = json.Unmarshal(data, &denial)
	}
	return resp.StatusCode, denial
}

func TestResourceGuardAllows(t *testing.T) {
	enforcer := &fakeEnforcer{resource: allowDecision()}
	app := fiber.New()
	app.Post("/tasks", RequireResourceCapacity(enforcer, entitlements.ResourceTasks), func(c *fiber.Ctx) error {
		d, ok := GetDecision(c)
		assert.True(t, ok)
		assert.True(t, d.Allowed)
		return c.SendStatus(fiber.StatusCreated)
	})

	status, _ := postJSON(t, app, "/tasks", map[string]any{"user_id": 7, "title": "x"})
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestResourceGuardDenies(t *testing.T) {
	enforcer := &fakeEnforcer{resource: denyDecision()}
	app := fiber.New()
	app.Post("/tasks", RequireResourceCapacity(enforcer, entitlements.ResourceTasks), func(c *fiber.Ctx) error {
		t.Fatal("handler must not run on denial")
		return nil
	})

	status, denial := postJSON(t, app, "/tasks", map[string]any{"user_id": 7, "title": "x"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.False(t, denial.Success)
	assert.Equal(t, quota.CodePlanLimitReached, denial.Code)
	require.NotNil(t, denial.Limit)
	assert.Equal(t, 100, *denial.Limit)
	require.NotNil(t, denial.Current)
	assert.Equal(t, int64(100), *denial.Current)
	assert.Equal(t, "normal", denial.Plan)
	require.NotNil(t, denial.Upgrade)
	assert.Equal(t, "pro", *denial.Upgrade)
}

func TestGuardPassesThroughWithoutPrincipal(t *testing.T) {
	enforcer := &fakeEnforcer{resource: denyDecision()}
	app := fiber.New()
	app.Post("/tasks", RequireResourceCapacity(enforcer, entitlements.ResourceTasks), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	// no user context, no body user_id, no query param: the guard steps aside
	status, _ := postJSON(t, app, "/tasks", map[string]any{"title": "x"})
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestGuardPassesThroughOnEnforcerFault(t *testing.T) {
	enforcer := &fakeEnforcer{panics: true}
	app := fiber.New()
	app.Post("/tasks", RequireResourceCapacity(enforcer, entitlements.ResourceTasks), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	status, _ := postJSON(t, app, "/tasks", map[string]any{"user_id": 7})
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestContainerGuardResolvesParentFromRoute(t *testing.T) {
	enforcer := &fakeEnforcer{resource: denyDecision()}
	app := fiber.New()
	app.Post("/lists/:listID/sections", RequireContainerCapacity(enforcer, entitlements.ResourceSections), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	status, denial := postJSON(t, app, "/lists/42/sections", map[string]any{"user_id": 7, "name": "s"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, quota.CodePlanLimitReached, denial.Code)
}

func TestContainerGuardPassesThroughWithoutContainer(t *testing.T) {
	enforcer := &fakeEnforcer{resource: denyDecision()}
	app := fiber.New()
	app.Post("/sections", RequireContainerCapacity(enforcer, entitlements.ResourceSections), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	status, _ := postJSON(t, app, "/sections", map[string]any{"user_id": 7, "name": "s"})
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestFeatureGuardDenies(t *testing.T) {
	enforcer := &fakeEnforcer{feature: false}
	app := fiber.New()
	app.Post("/board", RequireFeature(enforcer, "kanban"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	status, denial := postJSON(t, app, "/board", map[string]any{"user_id": 7})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, quota.CodeFeatureNotAvailable, denial.Code)
	assert.Equal(t, "kanban", denial.Feature)
	assert.Nil(t, denial.Limit)
	assert.Nil(t, denial.Current)
	require.NotNil(t, denial.Upgrade)
	assert.Equal(t, "pro", *denial.Upgrade)
}

func TestFeatureGuardSuggestsNextTierUp(t *testing.T) {
	enforcer := &fakeEnforcer{feature: false}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("USER_CONTEXT", usercontext.UserContext{IsLoggedIn: true, UserID: 7, Plan: "pro"})
		return c.Next()
	})
	app.Post("/board", RequireFeature(enforcer, "kanban"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	status, denial := postJSON(t, app, "/board", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "pro", denial.Plan)
	require.NotNil(t, denial.Upgrade)
	assert.Equal(t, "promax", *denial.Upgrade)
}

func TestAIGuardDeniesWithoutUsageNumbersWhenNotAvailable(t *testing.T) {
	enforcer := &fakeEnforcer{ai: quota.Decision{
		Allowed: false,
		Code:    quota.CodeAINotAvailable,
		Reason:  "AI assist is not available on your plan",
		Plan:    entitlements.PlanNormal,
		Upgrade: entitlements.PlanPro,
	}}
	app := fiber.New()
	app.Post("/ai", RequireAIQuota(enforcer, entitlements.AIActionRoutine), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	status, denial := postJSON(t, app, "/ai", map[string]any{"user_id": 7})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, quota.CodeAINotAvailable, denial.Code)
	assert.Nil(t, denial.Limit)
	assert.Nil(t, denial.Current)
}

func TestAIGuardAttachesDeferredRecorder(t *testing.T) {
	enforcer := &fakeEnforcer{ai: allowDecision()}
	app := fiber.New()
	app.Post("/ai", RequireAIQuota(enforcer, entitlements.AIActionDescription), func(c *fiber.Ctx) error {
		GetAIUsageRecorder(c)()
		return c.SendStatus(fiber.StatusOK)
	})

	status, _ := postJSON(t, app, "/ai", map[string]any{"user_id": 7})
	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, enforcer.recorded, 1)
	assert.Equal(t, entitlements.AIActionDescription, enforcer.recorded[0])
}

func TestAIGuardRecorderNotInvokedWithoutHandlerCall(t *testing.T) {
	enforcer := &fakeEnforcer{ai: allowDecision()}
	app := fiber.New()
	app.Post("/ai", RequireAIQuota(enforcer, entitlements.AIActionDescription), func(c *fiber.Ctx) error {
		// simulated generator failure: the handler never calls the recorder
		return c.SendStatus(fiber.StatusBadGateway)
	})

	status, _ := postJSON(t, app, "/ai", map[string]any{"user_id": 7})
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Empty(t, enforcer.recorded)
}

func TestGetAIUsageRecorderFallsBackToNoop(t *testing.T) {
	app := fiber.New()
	app.Post("/free", func(c *fiber.Ctx) error {
		assert.NotPanics(t, func() { GetAIUsageRecorder(c)() })
		return c.SendStatus(fiber.StatusOK)
	})

	status, _ := postJSON(t, app, "/free", map[string]any{})
	assert.Equal(t, fiber.StatusOK, status)
}
