package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/TaskNestApp/TaskNest/app/controllers"
	"github.com/TaskNestApp/TaskNest/app/repository"
	apiv1 "github.com/TaskNestApp/TaskNest/internal/api/v1"
	"github.com/TaskNestApp/TaskNest/internal/pkg/database"
	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
	"github.com/TaskNestApp/TaskNest/internal/pkg/middleware"
	"github.com/TaskNestApp/TaskNest/internal/pkg/plan"
	"github.com/TaskNestApp/TaskNest/internal/pkg/quota"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	repos := repository.GetGlobalFactory().GetRepositories()
	plans := plan.NewServiceFromDB(database.GetDB())
	enforcer := quota.NewService(plans, quota.NewCounter(repos), quota.NewMeter(repos.AIUsage))

	// API v1 routes
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServerWith(plans, enforcer)
	apiv1.RegisterHandlers(v1, apiServer)

	// Auth
	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleAuthRegister)
	auth.Get("/activate/:token", controllers.HandleAuthActivate)
	auth.Post("/login", controllers.HandleAuthLogin)
	auth.Post("/logout", controllers.HandleAuthLogout)
	auth.Post("/phone/request", middleware.RequireAPISessionAuth, controllers.HandleRequestPhoneCode)
	auth.Post("/phone/confirm", middleware.RequireAPISessionAuth, controllers.HandleConfirmPhoneCode)

	// Profile
	v1.Get("/me", middleware.RequireAPISessionAuth, controllers.HandleGetMe)

	// Payment provider webhook, authenticated by signature instead of session
	v1.Post("/billing/webhook/:provider", controllers.HandleBillingWebhook)

	// Plan lifecycle
	v1.Post("/plan/upgrade", middleware.RequireAPISessionAuth, controllers.HandlePlanUpgrade)
	v1.Post("/plan/cancel", middleware.RequireAPISessionAuth, controllers.HandlePlanCancel)

	// Tasks; creation passes the active-task ceiling guard
	tasks := v1.Group("/tasks", middleware.RequireAPISessionAuth)
	tasks.Post("/",
		middleware.RequireResourceCapacity(enforcer, entitlements.ResourceTasks),
		controllers.HandleCreateTask)
	tasks.Get("/", controllers.HandleListTasks)
	tasks.Get("/:id", controllers.HandleGetTask)
	tasks.Patch("/:id", controllers.HandleUpdateTask)
	tasks.Post("/:id/complete", controllers.HandleCompleteTask)
	tasks.Delete("/:id", controllers.HandleDeleteTask)

	// Subtasks; counted per parent task
	tasks.Post("/:taskID/subtasks",
		middleware.RequireContainerCapacity(enforcer, entitlements.ResourceSubtasks),
		controllers.HandleCreateSubtask)
	tasks.Get("/:taskID/subtasks", controllers.HandleListSubtasks)

	// Lists; creation passes the per-user list ceiling guard
	lists := v1.Group("/lists", middleware.RequireAPISessionAuth)
	lists.Post("/",
		middleware.RequireResourceCapacity(enforcer, entitlements.ResourceLists),
		controllers.HandleCreateList)
	lists.Get("/", controllers.HandleListLists)
	lists.Patch("/:id", controllers.HandleUpdateList)
	lists.Delete("/:id", controllers.HandleDeleteList)

	// Sections; counted per parent list
	lists.Post("/:listID/sections",
		middleware.RequireContainerCapacity(enforcer, entitlements.ResourceSections),
		controllers.HandleCreateSection)
	lists.Get("/:listID/sections", controllers.HandleListSections)

	// Kanban board is a paid feature gate, the board itself is just the
	// list/section/task data regrouped client-side
	v1.Get("/board/:listID",
		middleware.RequireAPISessionAuth,
		middleware.RequireFeature(enforcer, "kanban"),
		controllers.HandleListSections)

	// AI assists; each action runs its quota guard and records on success
	ai := v1.Group("/ai", middleware.RequireAPISessionAuth)
	ai.Post("/description",
		middleware.RequireAIQuota(enforcer, entitlements.AIActionDescription),
		controllers.HandleAISuggestDescription)
	ai.Post("/subtasks",
		middleware.RequireAIQuota(enforcer, entitlements.AIActionSubtask),
		controllers.HandleAISuggestSubtasks)
	ai.Post("/routine",
		middleware.RequireAIQuota(enforcer, entitlements.AIActionRoutine),
		controllers.HandleAISuggestRoutine)

	// Statistics depth follows the tier
	v1.Get("/statistics", middleware.RequireAPISessionAuth, controllers.HandleGetStatistics)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
