package models

import "time"

// Billing subscription statuses as normalized from provider payloads.
const (
	BillingStatusActive   = "active"
	BillingStatusTrialing = "trialing"
	BillingStatusPastDue  = "past_due"
	BillingStatusCanceled = "canceled"
	BillingStatusExpired  = "expired"
)

// BillingSubscription mirrors one provider subscription for a user. The
// internal plan is derived from the provider plan ref at sync time.
type BillingSubscription struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	UserID                 uint       `gorm:"not null;index" json:"user_id"`
	Provider               string     `gorm:"type:varchar(50);not null;uniqueIndex:uk_billing_sub,priority:1" json:"provider"`
	ProviderSubscriptionID string     `gorm:"type:varchar(190);not null;uniqueIndex:uk_billing_sub,priority:2" json:"provider_subscription_id"`
	ProviderPlanRef        string     `gorm:"type:varchar(190)" json:"provider_plan_ref"`
	InternalPlan           string     `gorm:"type:varchar(20);not null;default:'normal'" json:"internal_plan"`
	Status                 string     `gorm:"type:varchar(32);not null;default:'active'" json:"status"`
	CurrentPeriodEnd       *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CancelAtPeriodEnd      bool       `gorm:"default:false" json:"cancel_at_period_end"`
	RawPayloadJSON         string     `gorm:"type:text" json:"-"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// BillingWebhookEvent stores every received webhook exactly once so retries
// from the provider stay idempotent.
type BillingWebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Provider        string     `gorm:"type:varchar(50);not null;uniqueIndex:uk_billing_event,priority:1" json:"provider"`
	ProviderEventID string     `gorm:"type:varchar(190);not null;uniqueIndex:uk_billing_event,priority:2" json:"provider_event_id"`
	EventType       string     `gorm:"type:varchar(100)" json:"event_type"`
	PayloadJSON     string     `gorm:"type:text" json:"-"`
	SignatureValid  bool       `gorm:"default:false" json:"signature_valid"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"-"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
