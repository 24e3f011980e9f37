package middleware

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
	"github.com/TaskNestApp/TaskNest/internal/pkg/quota"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

// Locals keys set by the guards for downstream handlers.
const (
	KeyEntitlementDecision = "ENTITLEMENT_DECISION"
	KeyAIUsageRecorder     = "AI_USAGE_RECORDER"
)

// Enforcer is the decision source consumed by the guards; satisfied by
// *quota.Service.
type Enforcer interface {
	CheckResource(userID uint, rc entitlements.ResourceClass) quota.Decision
	CheckContainer(userID, containerID uint, rc entitlements.ResourceClass) quota.Decision
	CheckAI(userID uint, action entitlements.AIAction) quota.Decision
	HasFeature(userID uint, name string) bool
	RecordAIUsage(userID uint, action entitlements.AIAction)
}

// DenialResponse is the JSON body returned with every 403 from a guard.
type DenialResponse struct {
	Success bool    `json:"success"`
	Error   string  `json:"error"`
	Code    string  `json:"code"`
	Limit   *int    `json:"limit,omitempty"`
	Current *int64  `json:"current,omitempty"`
	Plan    string  `json:"plan"`
	Upgrade *string `json:"upgrade"`
	Feature string  `json:"feature,omitempty"`
}

// NewDenialResponse maps a decision onto the client-facing denial shape.
func NewDenialResponse(d quota.Decision) DenialResponse {
	resp := DenialResponse{
		Success: false,
		Error:   d.Reason,
		Code:    d.Code,
		Plan:    string(d.Plan),
	}
	if d.Code != quota.CodeAINotAvailable && d.Code != quota.CodeFeatureNotAvailable {
		limit := d.Limit
		current := d.Current
		resp.Limit = &limit
		resp.Current = &current
	}
	if d.Upgrade != "" {
		upgrade := string(d.Upgrade)
		resp.Upgrade = &upgrade
	}
	return resp
}

// guardBody is the subset of request-body fields the guards look at.
type guardBody struct {
	UserID uint `json:"user_id"`
	ListID uint `json:"list_id"`
	TaskID uint `json:"task_id"`
}

// principalID resolves the acting user: authenticated context first, then a
// request-body field, then a query parameter. 0 means unresolvable; guards
// pass those requests through and leave rejection to downstream auth.
func principalID(c *fiber.Ctx) uint {
	if id := usercontext.GetUserID(c); id != 0 {
		return id
	}
	var body guardBody
	if err := c.BodyParser(&body); err == nil && body.UserID != 0 {
		return body.UserID
	}
	if raw := c.Query("user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return uint(id)
		}
	}
	return 0
}

// containerID resolves the parent container for container-scoped guards
// from the request body or a route parameter. 0 means absent.
func containerID(c *fiber.Ctx, bodyField, param string) uint {
	var body guardBody
	if err := c.BodyParser(&body); err == nil {
		switch bodyField {
		case "list_id":
			if body.ListID != 0 {
				return body.ListID
			}
		case "task_id":
			if body.TaskID != 0 {
				return body.TaskID
			}
		}
	}
	if raw := c.Params(param); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return uint(id)
		}
	}
	return 0
}

// RequireResourceCapacity guards creation of a user-scoped resource class.
// Denials short-circuit with 403; allowed requests proceed with the
// decision attached to the request context. An internal guard fault never
// blocks the request.
func RequireResourceCapacity(enforcer Enforcer, rc entitlements.ResourceClass) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := principalID(c)
		if userID == 0 {
			return c.Next()
		}

		decision, ok := safeCheck(func() quota.Decision {
			return enforcer.CheckResource(userID, rc)
		})
		if !ok {
			return c.Next()
		}
		if !decision.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(NewDenialResponse(decision))
		}

		c.Locals(KeyEntitlementDecision, decision)
		return c.Next()
	}
}

// RequireContainerCapacity guards creation inside a parent container
// (sections per list, subtasks per task). Requests without a resolvable
// container id pass through.
func RequireContainerCapacity(enforcer Enforcer, rc entitlements.ResourceClass) fiber.Handler {
	bodyField, param := "list_id", "listID"
	if rc == entitlements.ResourceSubtasks {
		bodyField, param = "task_id", "taskID"
	}

	return func(c *fiber.Ctx) error {
		userID := principalID(c)
		if userID == 0 {
			return c.Next()
		}
		container := containerID(c, bodyField, param)
		if container == 0 {
			return c.Next()
		}

		decision, ok := safeCheck(func() quota.Decision {
			return enforcer.CheckContainer(userID, container, rc)
		})
		if !ok {
			return c.Next()
		}
		if !decision.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(NewDenialResponse(decision))
		}

		c.Locals(KeyEntitlementDecision, decision)
		return c.Next()
	}
}

// RequireFeature guards access to a tier feature flag.
func RequireFeature(enforcer Enforcer, feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := principalID(c)
		if userID == 0 {
			return c.Next()
		}

		allowed, ok := safeBool(func() bool { return enforcer.HasFeature(userID, feature) })
		if !ok {
			return c.Next()
		}
		if !allowed {
			effective := entitlements.NormalizePlan(usercontext.GetUserContext(c).Plan)
			resp := DenialResponse{
				Success: false,
				Error:   "This feature is not included in your plan",
				Code:    quota.CodeFeatureNotAvailable,
				Plan:    string(effective),
				Feature: feature,
			}
			if up := entitlements.SuggestedUpgrade(effective); up != "" {
				upgrade := string(up)
				resp.Upgrade = &upgrade
			}
			return c.Status(fiber.StatusForbidden).JSON(resp)
		}
		return c.Next()
	}
}

// RequireAIQuota guards an AI action. Allowed requests carry a deferred
// recorder in the request context; handlers invoke it only after the AI
// action actually succeeded, so failed actions never consume quota.
func RequireAIQuota(enforcer Enforcer, action entitlements.AIAction) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := principalID(c)
		if userID == 0 {
			return c.Next()
		}

		decision, ok := safeCheck(func() quota.Decision {
			return enforcer.CheckAI(userID, action)
		})
		if !ok {
			return c.Next()
		}
		if !decision.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(NewDenialResponse(decision))
		}

		c.Locals(KeyEntitlementDecision, decision)
		c.Locals(KeyAIUsageRecorder, func() {
			enforcer.RecordAIUsage(userID, action)
		})
		return c.Next()
	}
}

// GetAIUsageRecorder returns the deferred recorder attached by the AI
// guard, or a no-op when the guard did not run.
func GetAIUsageRecorder(c *fiber.Ctx) func() {
	if rec, ok := c.Locals(KeyAIUsageRecorder).(func()); ok {
		return rec
	}
	return func() {}
}

// GetDecision returns the decision attached by a guard, if any.
func GetDecision(c *fiber.Ctx) (quota.Decision, bool) {
	d, ok := c.Locals(KeyEntitlementDecision).(quota.Decision)
	return d, ok
}

// safeCheck runs an enforcement check and converts a panic into a
// pass-through: an internal fault in the guard must never block a request.
func safeCheck(fn func() quota.Decision) (decision quota.Decision, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("entitlement guard fault, passing request through: %v", r)
			ok = false
		}
	}()
	return fn(), true
}

func safeBool(fn func() bool) (allowed bool, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("entitlement guard fault, passing request through: %v", r)
			ok = false
		}
	}()
	return fn(), true
}
