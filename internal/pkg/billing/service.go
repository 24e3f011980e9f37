package billing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
)

// Service synchronizes provider subscription state into local tables and
// reconciles the user's stored plan from it.
type Service struct {
	repo Repository
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// SyncSubscription upserts provider subscription data and reconciles the
// user's plan.
func (s *Service) SyncSubscription(in NormalizedSubscription) (*models.BillingSubscription, entitlements.Plan, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if in.UserID == 0 || provider == "" || strings.TrimSpace(in.ProviderSubscriptionID) == "" {
		return nil, "", errors.New("user_id, provider and provider_subscription_id are required")
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = models.BillingStatusActive
	}

	sub := &models.BillingSubscription{
		UserID:                 in.UserID,
		Provider:               provider,
		ProviderSubscriptionID: strings.TrimSpace(in.ProviderSubscriptionID),
		ProviderPlanRef:        strings.TrimSpace(in.ProviderPlanRef),
		InternalPlan:           string(resolvePlanRef(in.ProviderPlanRef)),
		Status:                 status,
		CurrentPeriodEnd:       in.CurrentPeriodEnd,
		CancelAtPeriodEnd:      in.CancelAtPeriodEnd,
		RawPayloadJSON:         in.RawPayloadJSON,
	}
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return nil, "", err
	}

	effective, err := s.ReconcileUserPlan(in.UserID)
	if err != nil {
		return sub, "", err
	}
	return sub, effective, nil
}

// ReconcileUserPlan computes the best entitling subscription and writes the
// result into the user's plan row. With no entitling subscription the user
// drops to normal.
func (s *Service) ReconcileUserPlan(userID uint) (entitlements.Plan, error) {
	if userID == 0 {
		return "", errors.New("user_id is required")
	}

	subs, err := s.repo.ListSubscriptionsByUser(userID)
	if err != nil {
		return "", err
	}

	best := entitlements.PlanNormal
	var bestSub *models.BillingSubscription
	for i, sub := range subs {
		if !isEntitlingStatus(sub.Status) {
			continue
		}
		candidate := entitlements.NormalizePlan(sub.InternalPlan)
		if entitlements.PlanRank(candidate) > entitlements.PlanRank(best) {
			best = candidate
			bestSub = &subs[i]
		}
	}

	up, err := s.repo.GetOrCreateUserPlan(userID)
	if err != nil {
		return "", err
	}

	up.Plan = string(best)
	if bestSub != nil {
		up.ExpiresAt = bestSub.CurrentPeriodEnd
	} else {
		up.ExpiresAt = nil
	}
	if err := s.repo.SaveUserPlan(up); err != nil {
		return "", err
	}
	return best, nil
}

// RecordWebhookEvent persists webhook payloads idempotently. Events without a
// provider event id are keyed by a payload hash.
func (s *Service) RecordWebhookEvent(in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional
// error message.
func (s *Service) MarkWebhookProcessed(webhookEventID uint, processingErr error) error {
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}
