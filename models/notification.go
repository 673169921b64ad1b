package models

import (
	"time"

	"gorm.io/datatypes"
)

// Outbox delivery states.
const (
	OutboxPending = "PENDING"
	OutboxSent    = "SENT"
	OutboxFailed  = "FAILED"
)

// Notification event names.
const (
	EventCheckIn         = "check-in"
	EventCurrentlyInside = "currently-inside"
)

// NotificationOutbox is written in the same transaction as the lifecycle
// state change and dispatched only after commit. A crash between commit and
// dispatch leaves the row PENDING for the scheduler to redeliver; delivery
// failures mark it FAILED and never touch the committed transition.
type NotificationOutbox struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`

	Event     string         `gorm:"column:event;size:50" json:"event"`
	PassID    string         `gorm:"column:pass_id;size:64;index" json:"passId"`
	Recipient string         `gorm:"column:recipient;size:255" json:"recipient"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload"`

	Status    string     `gorm:"column:status;size:20;default:PENDING" json:"status"`
	LastError string     `gorm:"column:last_error;type:text" json:"lastError,omitempty"`
	SentAt    *time.Time `gorm:"column:sent_at" json:"sentAt,omitempty"`
}
