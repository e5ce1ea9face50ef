package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TimeOfDay string

const (
	TimeOfDayMorning TimeOfDay = "morning"
	TimeOfDayMidday  TimeOfDay = "midday"
	TimeOfDayEvening TimeOfDay = "evening"
	TimeOfDayNight   TimeOfDay = "night"
)

func (t TimeOfDay) Valid() bool {
	switch t {
	case TimeOfDayMorning, TimeOfDayMidday, TimeOfDayEvening, TimeOfDayNight:
		return true
	}
	return false
}

// ItemSchedule is one recurring daily time slot for an Item, the "when" of
// a dose. TimeOfDay is an advisory label; ScheduledHour/ScheduledMinute are
// the authoritative slot. DaysOfWeek is carried for the catalog but the
// generator does not filter on it.
type ItemSchedule struct {
	ID              uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID          uuid.UUID                `gorm:"type:uuid;not null;index;column:item_id" json:"item_id"`
	TimeOfDay       TimeOfDay                `gorm:"not null;column:time_of_day" json:"time_of_day"`
	ScheduledHour   int                      `gorm:"not null;column:scheduled_hour" json:"scheduled_hour"`
	ScheduledMinute int                      `gorm:"not null;column:scheduled_minute" json:"scheduled_minute"`
	DaysOfWeek      datatypes.JSONSlice[int] `gorm:"column:days_of_week" json:"days_of_week,omitempty"`
	CreatedAt       time.Time                `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time                `gorm:"not null" json:"updated_at"`
}

func (ItemSchedule) TableName() string {
	return "item_schedule"
}
