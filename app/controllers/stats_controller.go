package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/database"
	"github.com/TaskNestApp/TaskNest/internal/pkg/plan"
	"github.com/TaskNestApp/TaskNest/internal/pkg/statistics"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

// HandleGetStatistics returns productivity statistics at the depth the user's
// tier grants. Every tier gets at least the basic counters.
func HandleGetStatistics(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	// Resolve the effective tier instead of trusting the session-cached plan,
	// so an expired subscription loses the deeper statistics immediately.
	tier := plan.NewServiceFromDB(database.GetDB()).Tier(userCtx.UserID)
	depth := statistics.DepthBasic
	if level, ok := tier.FeatureLevel("statistics").(string); ok && level != "" {
		depth = level
	}

	repos := repository.GetGlobalFactory().GetRepositories()
	summary := statistics.BuildSummary(repos, userCtx.UserID, depth)

	return c.JSON(fiber.Map{"success": true, "statistics": summary})
}
