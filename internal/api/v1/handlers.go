package apiv1

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/database"
	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
	"github.com/TaskNestApp/TaskNest/internal/pkg/plan"
	"github.com/TaskNestApp/TaskNest/internal/pkg/quota"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

// APIServer serves the versioned plan and quota endpoints.
type APIServer struct {
	plans  *plan.Service
	quotas *quota.Service
}

// NewAPIServer wires the server against the global factory and database.
func NewAPIServer() *APIServer {
	repos := repository.GetGlobalFactory().GetRepositories()
	plans := plan.NewServiceFromDB(database.GetDB())
	return &APIServer{
		plans:  plans,
		quotas: quota.NewService(plans, quota.NewCounter(repos), quota.NewMeter(repos.AIUsage)),
	}
}

// NewAPIServerWith injects prebuilt services, used by tests.
func NewAPIServerWith(plans *plan.Service, quotas *quota.Service) *APIServer {
	return &APIServer{plans: plans, quotas: quotas}
}

// GetPing handles the ping endpoint.
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Ping: "pong"})
}

// GetPlans returns the public tier catalog.
func (s *APIServer) GetPlans(c *fiber.Ctx) error {
	tiers := entitlements.AllTiers()
	out := make([]TierInfo, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, TierInfo{
			ID:       string(t.ID),
			Name:     t.Name,
			PriceEUR: t.PriceEUR,
			Limits: map[string]int{
				"tasks":             t.Limits.Tasks,
				"lists":             t.Limits.Lists,
				"sections_per_list": t.Limits.SectionsPerList,
				"subtasks_per_task": t.Limits.SubtasksPerTask,
			},
			Features: t.Features,
			AI:       aiPolicy(t.AI),
		})
	}
	return c.JSON(fiber.Map{"plans": out})
}

// GetMyPlan returns the authenticated user's effective plan with a usage
// snapshot across all resource classes and AI allowances.
func (s *APIServer) GetMyPlan(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	effective, paid := s.plans.Resolve(userCtx.UserID)
	tier := entitlements.GetTier(effective)

	summary := PlanSummary{
		Plan:  string(effective),
		Paid:  paid,
		Usage: make(map[string]ResourceUsage, 2),
	}
	if exp := s.plans.ExpiresAt(userCtx.UserID); exp != nil {
		v := exp.UTC().Format(time.RFC3339)
		summary.ExpiresAt = &v
	}

	for _, rc := range []entitlements.ResourceClass{entitlements.ResourceTasks, entitlements.ResourceLists} {
		summary.Usage[rc.String()] = ResourceUsage{
			Current: s.quotas.Count(rc, userCtx.UserID),
			Limit:   tier.Limits.Ceiling(rc),
		}
	}

	if tier.AI.Enabled {
		summary.AI = make(map[string]AIUsage, len(tier.AI.Allowances))
		for action, allowance := range tier.AI.Allowances {
			summary.AI[string(action)] = AIUsage{
				Used:   s.quotas.CountUsage(userCtx.UserID, action, allowance.Window),
				Limit:  allowance.Limit,
				Window: string(allowance.Window),
			}
		}
	}

	return c.JSON(summary)
}

// GetCanCreate answers a capacity pre-check for ?resource=R. Container-scoped
// classes additionally require the container id.
func (s *APIServer) GetCanCreate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	rc, ok := entitlements.ParseResourceClass(c.Query("resource"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Unknown resource class"})
	}

	var decision quota.Decision
	if rc.ContainerScoped() {
		containerID := uint(c.QueryInt("container_id", 0))
		if containerID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "container_id required for " + rc.String()})
		}
		decision = s.quotas.CheckContainer(userCtx.UserID, containerID, rc)
	} else {
		decision = s.quotas.CheckResource(userCtx.UserID, rc)
	}

	resp := CanCreateResponse{
		Resource: rc.String(),
		Allowed:  decision.Allowed,
	}
	if !decision.Allowed {
		resp.Code = decision.Code
		resp.Limit = &decision.Limit
		resp.Current = &decision.Current
		resp.Upgrade = string(decision.Upgrade)
	}

	return c.JSON(resp)
}

// GetFeature answers whether the named feature is enabled for the user and at
// which level.
func (s *APIServer) GetFeature(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	name := c.Params("name")
	resp := FeatureResponse{
		Feature: name,
		Enabled: s.quotas.HasFeature(userCtx.UserID, name),
	}
	if level := s.quotas.FeatureLevel(userCtx.UserID, name); level != nil {
		resp.Level = level
	}

	return c.JSON(resp)
}

func aiPolicy(ai entitlements.AIAllowance) map[string]any {
	out := map[string]any{"enabled": ai.Enabled}
	if len(ai.Allowances) > 0 {
		allowances := make(map[string]any, len(ai.Allowances))
		for action, a := range ai.Allowances {
			allowances[string(action)] = fiber.Map{"limit": a.Limit, "window": string(a.Window)}
		}
		out["allowances"] = allowances
	}
	return out
}
