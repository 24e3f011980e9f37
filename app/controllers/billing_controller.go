package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TaskNestApp/TaskNest/internal/pkg/billing"
	"github.com/TaskNestApp/TaskNest/internal/pkg/database"
	"github.com/TaskNestApp/TaskNest/internal/pkg/env"
)

// webhookPayload is the normalized event body the payment provider posts.
type webhookPayload struct {
	EventID        string     `json:"event_id"`
	EventType      string     `json:"event_type"`
	UserID         uint       `json:"user_id"`
	SubscriptionID string     `json:"subscription_id"`
	PlanRef        string     `json:"plan_ref"`
	Status         string     `json:"status"`
	PeriodEnd      *time.Time `json:"period_end"`
	CancelAtEnd    bool       `json:"cancel_at_period_end"`
}

// HandleBillingWebhook ingests payment provider events. Events are stored
// idempotently; replays acknowledge without reprocessing. Invalid signatures
// are recorded but never change plan state.
func HandleBillingWebhook(c *fiber.Ctx) error {
	provider := c.Params("provider")
	body := c.Body()

	signatureValid := billing.VerifyWebhookSignature(
		body,
		c.Get("X-Webhook-Signature"),
		env.GetEnv("BILLING_WEBHOOK_SECRET", ""),
	)

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid webhook payload")
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	created, event, err := svc.RecordWebhookEvent(billing.WebhookEventInput{
		Provider:        provider,
		ProviderEventID: payload.EventID,
		EventType:       payload.EventType,
		PayloadJSON:     string(body),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to record event")
	}
	if !created {
		return c.JSON(fiber.Map{"success": true, "duplicate": true})
	}

	if !signatureValid {
		log.Printf("[Billing] rejected unsigned %s event %s", provider, payload.EventID)
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid webhook signature")
	}

	_, effective, syncErr := svc.SyncSubscription(billing.NormalizedSubscription{
		UserID:                 payload.UserID,
		Provider:               provider,
		ProviderSubscriptionID: payload.SubscriptionID,
		ProviderPlanRef:        payload.PlanRef,
		Status:                 payload.Status,
		CurrentPeriodEnd:       payload.PeriodEnd,
		CancelAtPeriodEnd:      payload.CancelAtEnd,
		RawPayloadJSON:         string(body),
	})
	if err := svc.MarkWebhookProcessed(event.ID, syncErr); err != nil {
		log.Printf("[Billing] failed to mark event %d processed: %v", event.ID, err)
	}
	if syncErr != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "sync_failed", syncErr.Error())
	}

	return c.JSON(fiber.Map{"success": true, "plan": string(effective)})
}
