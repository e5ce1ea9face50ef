package types

import (
	"time"

	"github.com/google/uuid"
)

type InstanceStatus string

const (
	StatusPending   InstanceStatus = "pending"
	StatusConfirmed InstanceStatus = "confirmed"
	StatusSnoozed   InstanceStatus = "snoozed"
	StatusSkipped   InstanceStatus = "skipped"
)

type ObservationCategory string

const (
	ObservationSymptom  ObservationCategory = "symptom"
	ObservationSnack    ObservationCategory = "snack"
	ObservationBehavior ObservationCategory = "behavior"
	ObservationNote     ObservationCategory = "note"
)

func (c ObservationCategory) Valid() bool {
	switch c {
	case ObservationSymptom, ObservationSnack, ObservationBehavior, ObservationNote:
		return true
	}
	return false
}

// DailyInstance is the unit of actionable state: one concrete occurrence of
// an Item+ItemSchedule on a calendar date, or a free-standing observation.
// Exactly one of the two shapes holds per row: scheduled instances have
// ItemID+ScheduleID set and no observation fields; observations have
// IsObservation true with category+text and nil ItemID/ScheduleID.
//
// ScheduledHour/ScheduledMinute are copied from the schedule at generation
// time, so later schedule edits do not retroactively move already-generated
// instances. ConfirmedAt/SnoozedUntil are epoch milliseconds.
type DailyInstance struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID              *uuid.UUID          `gorm:"type:uuid;index;column:item_id" json:"item_id,omitempty"`
	ScheduleID          *uuid.UUID          `gorm:"type:uuid;column:schedule_id" json:"schedule_id,omitempty"`
	PetID               uuid.UUID           `gorm:"type:uuid;not null;index;column:pet_id" json:"pet_id"`
	Date                string              `gorm:"not null;index;column:date" json:"date"`
	ScheduledHour       int                 `gorm:"not null;column:scheduled_hour" json:"scheduled_hour"`
	ScheduledMinute     int                 `gorm:"not null;column:scheduled_minute" json:"scheduled_minute"`
	Status              InstanceStatus      `gorm:"not null;index;column:status" json:"status"`
	ConfirmedBy         *uuid.UUID          `gorm:"type:uuid;column:confirmed_by" json:"confirmed_by,omitempty"`
	ConfirmedAt         *int64              `gorm:"column:confirmed_at" json:"confirmed_at,omitempty"`
	SnoozedUntil        *int64              `gorm:"column:snoozed_until" json:"snoozed_until,omitempty"`
	IsObservation       bool                `gorm:"not null;column:is_observation" json:"is_observation"`
	ObservationCategory ObservationCategory `gorm:"column:observation_category" json:"observation_category,omitempty"`
	ObservationText     string              `gorm:"column:observation_text" json:"observation_text,omitempty"`
	Notes               string              `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt           time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time           `gorm:"not null" json:"updated_at"`
}

func (DailyInstance) TableName() string {
	return "daily_instance"
}
