package apiv1

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterHandlers attaches the plan and quota endpoints to the given router
// group.
func RegisterHandlers(r fiber.Router, s *APIServer) {
	r.Get("/ping", s.GetPing)
	r.Get("/plans", s.GetPlans)
	r.Get("/plan", s.GetMyPlan)
	r.Get("/plan/can-create", s.GetCanCreate)
	r.Get("/plan/features/:name", s.GetFeature)
}
