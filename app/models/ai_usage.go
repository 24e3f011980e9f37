package models

import "time"

// AIUsage is one row per successful AI assist action. The log is append-only;
// this subsystem never updates or deletes rows, windows are enforced purely by
// query predicates.
type AIUsage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_ai_usage_user_action,priority:1" json:"user_id"`
	Action    string    `gorm:"type:varchar(32);not null;index:idx_ai_usage_user_action,priority:2" json:"action"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName keeps the log table name explicit.
func (AIUsage) TableName() string {
	return "ai_usage_events"
}
