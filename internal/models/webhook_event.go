package models

import "time"

// WebhookEvent is the audit trail for every inbound notification, including
// the ones the engine deliberately ignores.
type WebhookEvent struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Provider      string `gorm:"size:20;index" json:"provider"`
	EventKind     string `gorm:"size:30" json:"event_kind"`
	CorrelationID string `gorm:"size:255;index" json:"correlation_id"`
	Outcome       string `gorm:"size:30;index" json:"outcome"`
	RawPayload    string `gorm:"type:text" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
