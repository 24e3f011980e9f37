package plan

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
)

type fakeRepo struct {
	plans    map[uint]*models.UserPlan
	getErr   error
	saveErr  error
	saveSeen int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{plans: make(map[uint]*models.UserPlan)}
}

func (f *fakeRepo) GetOrCreate(userID uint) (*models.UserPlan, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if up, ok := f.plans[userID]; ok {
		return up, nil
	}
	up := &models.UserPlan{UserID: userID, Plan: string(entitlements.PlanNormal)}
	f.plans[userID] = up
	return up, nil
}

func (f *fakeRepo) Save(up *models.UserPlan) error {
	f.saveSeen++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.plans[up.UserID] = up
	return nil
}

func serviceAt(repo Repository, now time.Time) *Service {
	s := NewService(repo)
	s.now = func() time.Time { return now }
	return s
}

func TestResolveDefaultsToNormal(t *testing.T) {
	s := NewService(newFakeRepo())

	p, paid := s.Resolve(1)
	assert.Equal(t, entitlements.PlanNormal, p)
	assert.False(t, paid)
}

func TestResolvePaidPlan(t *testing.T) {
	repo := newFakeRepo()
	expires := time.Now().Add(24 * time.Hour)
	repo.plans[7] = &models.UserPlan{UserID: 7, Plan: "pro", ExpiresAt: &expires}

	p, paid := NewService(repo).Resolve(7)
	assert.Equal(t, entitlements.PlanPro, p)
	assert.True(t, paid)
}

func TestResolveExpiredPlanDowngradesAndPersists(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Minute)
	repo.plans[7] = &models.UserPlan{UserID: 7, Plan: "promax", ExpiresAt: &expired}

	s := serviceAt(repo, now)
	p, paid := s.Resolve(7)
	assert.Equal(t, entitlements.PlanNormal, p)
	assert.False(t, paid)

	// the downgrade must be written back
	stored := repo.plans[7]
	assert.Equal(t, string(entitlements.PlanNormal), stored.Plan)
	assert.Nil(t, stored.ExpiresAt)
	assert.Equal(t, 1, repo.saveSeen)

	// a second read sees the stored normal plan without another write
	p, paid = s.Resolve(7)
	assert.Equal(t, entitlements.PlanNormal, p)
	assert.False(t, paid)
	assert.Equal(t, 1, repo.saveSeen)
}

func TestResolveExpiryBoundary(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	exact := now
	repo.plans[1] = &models.UserPlan{UserID: 1, Plan: "pro", ExpiresAt: &exact}

	// expires_at equal to now is not yet expired
	p, paid := serviceAt(repo, now).Resolve(1)
	assert.Equal(t, entitlements.PlanPro, p)
	assert.True(t, paid)
}

func TestResolveStorageErrorFailsClosed(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = errors.New("connection refused")

	p, paid := NewService(repo).Resolve(9)
	assert.Equal(t, entitlements.PlanNormal, p)
	assert.False(t, paid)
}

func TestResolveDowngradeSurvivesFailedWrite(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Hour)
	repo.plans[3] = &models.UserPlan{UserID: 3, Plan: "pro", ExpiresAt: &expired}
	repo.saveErr = errors.New("read-only replica")

	p, paid := serviceAt(repo, now).Resolve(3)
	assert.Equal(t, entitlements.PlanNormal, p)
	assert.False(t, paid)
}

func TestResolveGarbagePlanStringTreatedAsNormal(t *testing.T) {
	repo := newFakeRepo()
	repo.plans[4] = &models.UserPlan{UserID: 4, Plan: "enterprise-legacy"}

	p, paid := NewService(repo).Resolve(4)
	assert.Equal(t, entitlements.PlanNormal, p)
	assert.False(t, paid)
}

func TestUpgradeAndCancelRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := serviceAt(repo, now)

	require.NoError(t, s.Upgrade(5, entitlements.PlanPro, 2))

	p, paid := s.Resolve(5)
	assert.Equal(t, entitlements.PlanPro, p)
	assert.True(t, paid)

	exp := s.ExpiresAt(5)
	require.NotNil(t, exp)
	assert.Equal(t, now.AddDate(0, 0, 60), *exp)

	require.NoError(t, s.Cancel(5))
	p, paid = s.Resolve(5)
	assert.Equal(t, entitlements.PlanNormal, p)
	assert.False(t, paid)
	assert.Nil(t, s.ExpiresAt(5))
}

func TestUpgradeRejectsNonPaidTarget(t *testing.T) {
	s := NewService(newFakeRepo())
	assert.Error(t, s.Upgrade(5, entitlements.PlanNormal, 1))
	assert.Error(t, s.Upgrade(5, entitlements.Plan("enterprise"), 1))
}

func TestTier(t *testing.T) {
	repo := newFakeRepo()
	expires := time.Now().Add(24 * time.Hour)
	repo.plans[2] = &models.UserPlan{UserID: 2, Plan: "promax", ExpiresAt: &expires}

	tier := NewService(repo).Tier(2)
	assert.Equal(t, entitlements.PlanProMax, tier.ID)
	assert.Equal(t, entitlements.Unlimited, tier.Limits.Tasks)
}
