package types

import "github.com/google/uuid"

// EnrichedInstance is a DailyInstance joined with its item's display fields
// at read time. The item fields are recomputed on every read rather than
// snapshotted, so live edits to an item show up in historical views too.
type EnrichedInstance struct {
	ID                  uuid.UUID           `json:"id"`
	ItemID              *uuid.UUID          `json:"item_id,omitempty"`
	ScheduleID          *uuid.UUID          `json:"schedule_id,omitempty"`
	PetID               uuid.UUID           `json:"pet_id"`
	Date                string              `json:"date"`
	ScheduledHour       int                 `json:"scheduled_hour"`
	ScheduledMinute     int                 `json:"scheduled_minute"`
	Status              InstanceStatus      `json:"status"`
	ConfirmedBy         *uuid.UUID          `json:"confirmed_by,omitempty"`
	ConfirmedAt         *int64              `json:"confirmed_at,omitempty"`
	SnoozedUntil        *int64              `json:"snoozed_until,omitempty"`
	IsObservation       bool                `json:"is_observation"`
	ObservationCategory ObservationCategory `json:"observation_category,omitempty"`
	ObservationText     string              `json:"observation_text,omitempty"`
	Notes               string              `json:"notes,omitempty"`
	ItemName            string              `json:"item_name"`
	ItemDose            string              `json:"item_dose"`
	ItemType            ItemType            `json:"item_type"`
	ItemLocation        string              `json:"item_location,omitempty"`
	ConflictGroup       string              `json:"conflict_group,omitempty"`
	ConflictWarning     string              `json:"conflict_warning,omitempty"`
}

type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// TodayView is the dashboard projection for one date. HeroItem is the
// single most urgent actionable instance, nil when everything is done.
type TodayView struct {
	Instances []EnrichedInstance `json:"instances"`
	HeroItem  *EnrichedInstance  `json:"hero_item"`
	Progress  Progress           `json:"progress"`
}

// AuditEntry is one ConfirmationHistory row resolved to the performer's
// display name.
type AuditEntry struct {
	Action      HistoryAction `json:"action"`
	UserName    string        `json:"user_name"`
	PerformedAt int64         `json:"performed_at"`
	Notes       *string       `json:"notes,omitempty"`
}

type HistoryInstance struct {
	EnrichedInstance
	AuditTrail []AuditEntry `json:"audit_trail"`
}

type HistoryView struct {
	Instances []HistoryInstance `json:"instances"`
}

// ItemWithSchedules is the admin catalog listing shape.
type ItemWithSchedules struct {
	Item
	Schedules []ItemSchedule `json:"schedules"`
}
