package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TaskNestApp/TaskNest/internal/pkg/database"
	"github.com/TaskNestApp/TaskNest/internal/pkg/plan"
	"github.com/TaskNestApp/TaskNest/internal/pkg/session"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request
// This centralizes user session handling and eliminates code duplication
func UserContextMiddleware(c *fiber.Ctx) error {
	// Get session with error handling
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// On error: set as anonymous user
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		return c.Next()
	}

	// Get user ID from session
	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		// Anonymous user - no session data
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		return c.Next()
	}

	// User is logged in - get additional data
	username := session.GetSessionValue(c, usercontext.KeyUsername)
	isAdmin := sess.Get(usercontext.KeyIsAdmin)

	// Determine plan with session-first strategy
	planName := session.GetSessionValue(c, usercontext.KeyPlan)
	if planName == "" {
		planName = "normal"
		if db := database.GetDB(); db != nil {
			if uid, ok := userID.(uint); ok {
				effective, _ := plan.NewServiceFromDB(db).Resolve(uid)
				planName = string(effective)
				_ = session.SetSessionValue(c, usercontext.KeyPlan, planName)
			}
		}
	}

	uc := usercontext.UserContext{
		IsLoggedIn: true,
		Plan:       planName,
	}
	if uid, ok := userID.(uint); ok {
		uc.UserID = uid
	}
	uc.Username = username
	if admin, ok := isAdmin.(bool); ok {
		uc.IsAdmin = admin
	}

	c.Locals("USER_CONTEXT", uc)
	return c.Next()
}
