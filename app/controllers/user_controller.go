package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
	"github.com/TaskNestApp/TaskNest/internal/pkg/utils"
)

// HandleGetMe returns the authenticated user's profile.
func HandleGetMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":             user.ID,
			"name":           user.Name,
			"email":          user.Email,
			"plan":           userCtx.Plan,
			"is_admin":       user.Role == "admin",
			"phone_verified": user.HasVerifiedPhone(),
			"avatar_url":     utils.GetGravatarURL(user.Email, 200),
			"created_at":     user.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}
