package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

// RequireAPISessionAuth ensures a logged-in session for API routes and returns JSON 401.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireAdmin ensures a logged-in admin; returns JSON 403 otherwise.
func RequireAdmin(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	if !usercontext.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "admin access required",
		})
	}
	return c.Next()
}
