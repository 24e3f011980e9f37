package billing

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/TaskNestApp/TaskNest/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	UpsertSubscription(sub *models.BillingSubscription) error
	ListSubscriptionsByUser(userID uint) ([]models.BillingSubscription, error)
	GetOrCreateUserPlan(userID uint) (*models.UserPlan, error)
	SaveUserPlan(up *models.UserPlan) error
	CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) UpsertSubscription(sub *models.BillingSubscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_subscription_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"provider_plan_ref",
			"internal_plan",
			"status",
			"current_period_end",
			"cancel_at_period_end",
			"raw_payload_json",
			"updated_at",
		}),
	}).Create(sub).Error
}

func (r *gormRepository) ListSubscriptionsByUser(userID uint) ([]models.BillingSubscription, error) {
	var subs []models.BillingSubscription
	err := r.db.Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}

func (r *gormRepository) GetOrCreateUserPlan(userID uint) (*models.UserPlan, error) {
	return models.GetOrCreateUserPlan(r.db, userID)
}

func (r *gormRepository) SaveUserPlan(up *models.UserPlan) error {
	return r.db.Save(up).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	var existing models.BillingWebhookEvent
	err := r.db.
		Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&existing).Error
	if err == nil {
		return false, &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, err
	}

	if err := r.db.Create(event).Error; err != nil {
		return false, nil, err
	}
	return true, event, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	return r.db.Model(&models.BillingWebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"processed_at":     &now,
			"processing_error": processingError,
		}).Error
}
