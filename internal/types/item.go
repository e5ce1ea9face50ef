package types

import (
	"time"

	"github.com/google/uuid"
)

type ItemType string

const (
	ItemTypeEyeDrop    ItemType = "eye_drop"
	ItemTypeOral       ItemType = "oral"
	ItemTypeSupplement ItemType = "supplement"
	ItemTypeTopical    ItemType = "topical"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeEyeDrop, ItemTypeOral, ItemTypeSupplement, ItemTypeTopical:
		return true
	}
	return false
}

// Item is one medication or supplement definition, the "what" of a dose.
// Items sharing a ConflictGroup must not be given within five minutes of
// each other. Deactivation is a soft flag: inactive items are excluded from
// future instance generation but their history stays intact.
type Item struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PetID         uuid.UUID `gorm:"type:uuid;not null;index;column:pet_id" json:"pet_id"`
	Name          string    `gorm:"not null;column:name" json:"name"`
	Dose          string    `gorm:"not null;column:dose" json:"dose"`
	Type          ItemType  `gorm:"not null;column:type" json:"type"`
	Location      string    `gorm:"column:location" json:"location,omitempty"`
	Notes         string    `gorm:"column:notes" json:"notes,omitempty"`
	ConflictGroup string    `gorm:"column:conflict_group" json:"conflict_group,omitempty"`
	IsActive      bool      `gorm:"not null;index;column:is_active" json:"is_active"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (Item) TableName() string {
	return "item"
}
