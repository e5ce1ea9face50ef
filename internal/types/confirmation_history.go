package types

import (
	"time"

	"github.com/google/uuid"
)

type HistoryAction string

const (
	ActionConfirmed   HistoryAction = "confirmed"
	ActionUnconfirmed HistoryAction = "unconfirmed"
	ActionSnoozed     HistoryAction = "snoozed"
	ActionSkipped     HistoryAction = "skipped"
)

// ConfirmationHistory is one immutable audit entry for a lifecycle
// transition on a DailyInstance. Written only by the lifecycle service,
// always inside the same transaction as the instance patch it records.
// PerformedAt is epoch milliseconds. Notes is nil when the caller supplied
// an empty string.
type ConfirmationHistory struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	InstanceID  uuid.UUID     `gorm:"type:uuid;not null;index;column:instance_id" json:"instance_id"`
	Action      HistoryAction `gorm:"not null;column:action" json:"action"`
	PerformedBy uuid.UUID     `gorm:"type:uuid;not null;column:performed_by" json:"performed_by"`
	PerformedAt int64         `gorm:"not null;index;column:performed_at" json:"performed_at"`
	Notes       *string       `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updated_at"`
}

func (ConfirmationHistory) TableName() string {
	return "confirmation_history"
}
