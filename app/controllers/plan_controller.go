package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TaskNestApp/TaskNest/internal/pkg/database"
	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
	"github.com/TaskNestApp/TaskNest/internal/pkg/plan"
	"github.com/TaskNestApp/TaskNest/internal/pkg/session"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

type upgradeRequest struct {
	Plan   string `json:"plan"`
	Months int    `json:"months"`
}

// HandlePlanUpgrade switches the user to a paid tier. Payment settlement is
// out of scope here, billing confirms upgrades through the same service.
func HandlePlanUpgrade(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	var req upgradeRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Months < 1 {
		req.Months = 1
	}

	target := entitlements.NormalizePlan(req.Plan)
	if target == entitlements.PlanNormal {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Unknown or non-paid target plan")
	}

	svc := plan.NewServiceFromDB(database.GetDB())
	if err := svc.Upgrade(userCtx.UserID, target, req.Months); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to upgrade plan")
	}

	refreshSessionPlan(c, string(target))

	return c.JSON(fiber.Map{
		"success":    true,
		"plan":       string(target),
		"expires_at": svc.ExpiresAt(userCtx.UserID),
	})
}

// HandlePlanCancel drops the user back to the free tier immediately.
func HandlePlanCancel(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	svc := plan.NewServiceFromDB(database.GetDB())
	if err := svc.Cancel(userCtx.UserID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to cancel plan")
	}

	refreshSessionPlan(c, string(entitlements.PlanNormal))

	return c.JSON(fiber.Map{"success": true, "plan": string(entitlements.PlanNormal)})
}

// refreshSessionPlan rewrites the cached plan so the next request sees the
// change without a database round trip.
func refreshSessionPlan(c *fiber.Ctx, p string) {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return
	}
	sess.Set(usercontext.KeyPlan, p)
	_ = sess.Save()
}
