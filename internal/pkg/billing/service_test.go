package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
)

type fakeBillingRepo struct {
	subs   map[string]*models.BillingSubscription
	plans  map[uint]*models.UserPlan
	events map[string]*models.BillingWebhookEvent
}

func newFakeBillingRepo() *fakeBillingRepo {
	return &fakeBillingRepo{
		subs:   make(map[string]*models.BillingSubscription),
		plans:  make(map[uint]*models.UserPlan),
		events: make(map[string]*models.BillingWebhookEvent),
	}
}

func (f *fakeBillingRepo) UpsertSubscription(sub *models.BillingSubscription) error {
	f.subs[sub.Provider+"/"+sub.ProviderSubscriptionID] = sub
	return nil
}

func (f *fakeBillingRepo) ListSubscriptionsByUser(userID uint) ([]models.BillingSubscription, error) {
	var out []models.BillingSubscription
	for _, sub := range f.subs {
		if sub.UserID == userID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeBillingRepo) GetOrCreateUserPlan(userID uint) (*models.UserPlan, error) {
	if up, ok := f.plans[userID]; ok {
		return up, nil
	}
	up := &models.UserPlan{UserID: userID, Plan: string(entitlements.PlanNormal)}
	f.plans[userID] = up
	return up, nil
}

func (f *fakeBillingRepo) SaveUserPlan(up *models.UserPlan) error {
	f.plans[up.UserID] = up
	return nil
}

func (f *fakeBillingRepo) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	key := event.Provider + "/" + event.ProviderEventID
	if existing, ok := f.events[key]; ok {
		return false, existing, nil
	}
	event.ID = uint(len(f.events) + 1)
	f.events[key] = event
	return true, event, nil
}

func (f *fakeBillingRepo) MarkWebhookProcessed(id uint, processingError string) error {
	for _, e := range f.events {
		if e.ID == id {
			now := time.Now()
			e.ProcessedAt = &now
			e.ProcessingError = processingError
		}
	}
	return nil
}

func TestSyncSubscriptionUpgradesPlan(t *testing.T) {
	repo := newFakeBillingRepo()
	s := NewService(repo)

	periodEnd := time.Now().AddDate(0, 1, 0)
	sub, effective, err := s.SyncSubscription(NormalizedSubscription{
		UserID:                 7,
		Provider:               "Stripe",
		ProviderSubscriptionID: "sub_123",
		ProviderPlanRef:        "tasknest-pro",
		Status:                 "active",
		CurrentPeriodEnd:       &periodEnd,
	})
	require.NoError(t, err)
	assert.Equal(t, "stripe", sub.Provider)
	assert.Equal(t, entitlements.PlanPro, effective)

	up := repo.plans[7]
	require.NotNil(t, up)
	assert.Equal(t, "pro", up.Plan)
	require.NotNil(t, up.ExpiresAt)
	assert.Equal(t, periodEnd, *up.ExpiresAt)
}

func TestReconcilePicksHighestEntitlingPlan(t *testing.T) {
	repo := newFakeBillingRepo()
	s := NewService(repo)

	_, _, err := s.SyncSubscription(NormalizedSubscription{
		UserID: 7, Provider: "stripe", ProviderSubscriptionID: "sub_pro",
		ProviderPlanRef: "tasknest-pro", Status: "active",
	})
	require.NoError(t, err)

	_, effective, err := s.SyncSubscription(NormalizedSubscription{
		UserID: 7, Provider: "stripe", ProviderSubscriptionID: "sub_max",
		ProviderPlanRef: "tasknest-promax", Status: "active",
	})
	require.NoError(t, err)
	assert.Equal(t, entitlements.PlanProMax, effective)
}

func TestReconcileIgnoresNonEntitlingStatuses(t *testing.T) {
	repo := newFakeBillingRepo()
	s := NewService(repo)

	_, effective, err := s.SyncSubscription(NormalizedSubscription{
		UserID: 7, Provider: "stripe", ProviderSubscriptionID: "sub_1",
		ProviderPlanRef: "tasknest-pro", Status: "canceled",
	})
	require.NoError(t, err)
	assert.Equal(t, entitlements.PlanNormal, effective)

	up := repo.plans[7]
	assert.Equal(t, "normal", up.Plan)
	assert.Nil(t, up.ExpiresAt)
}

func TestSyncSubscriptionValidatesInput(t *testing.T) {
	s := NewService(newFakeBillingRepo())

	_, _, err := s.SyncSubscription(NormalizedSubscription{Provider: "stripe"})
	assert.Error(t, err)
}

func TestRecordWebhookEventIsIdempotent(t *testing.T) {
	s := NewService(newFakeBillingRepo())

	in := WebhookEventInput{Provider: "stripe", ProviderEventID: "evt_1", EventType: "subscription.updated", PayloadJSON: "{}"}

	created, first, err := s.RecordWebhookEvent(in)
	require.NoError(t, err)
	assert.True(t, created)

	created, second, err := s.RecordWebhookEvent(in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestRecordWebhookEventHashesMissingEventID(t *testing.T) {
	s := NewService(newFakeBillingRepo())

	created, event, err := s.RecordWebhookEvent(WebhookEventInput{Provider: "stripe", PayloadJSON: `{"a":1}`})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, event.ProviderEventID, "hash:")

	created, _, err = s.RecordWebhookEvent(WebhookEventInput{Provider: "stripe", PayloadJSON: `{"a":1}`})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestResolvePlanRef(t *testing.T) {
	assert.Equal(t, entitlements.PlanPro, resolvePlanRef("tasknest-pro"))
	assert.Equal(t, entitlements.PlanPro, resolvePlanRef(" PRO "))
	assert.Equal(t, entitlements.PlanProMax, resolvePlanRef("tasknest-promax"))
	assert.Equal(t, entitlements.PlanNormal, resolvePlanRef("something"))
}
