package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/repos"
	"github.com/pawlog/pawlog-backend/internal/types"
)

// enrichInstances joins raw instances with their items' display fields.
// Item fields are read live, never snapshotted: renaming an item changes
// what every past instance displays, which is the intended behavior.
// Observations skip the join. A dangling item reference degrades to the
// same "Unknown" placeholder the UI showed before this backend existed.
func enrichInstances(ctx context.Context, tx *gorm.DB, itemRepo repos.ItemRepo, instances []*types.DailyInstance) ([]types.EnrichedInstance, error) {
	itemIDs := make([]uuid.UUID, 0, len(instances))
	seen := make(map[uuid.UUID]struct{}, len(instances))
	for _, inst := range instances {
		if inst.ItemID == nil {
			continue
		}
		if _, ok := seen[*inst.ItemID]; ok {
			continue
		}
		seen[*inst.ItemID] = struct{}{}
		itemIDs = append(itemIDs, *inst.ItemID)
	}

	items, err := itemRepo.GetByIDs(ctx, tx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("loading items for enrichment: %w", err)
	}
	itemsByID := make(map[uuid.UUID]*types.Item, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}

	enriched := make([]types.EnrichedInstance, 0, len(instances))
	for _, inst := range instances {
		e := types.EnrichedInstance{
			ID:                  inst.ID,
			ItemID:              inst.ItemID,
			ScheduleID:          inst.ScheduleID,
			PetID:               inst.PetID,
			Date:                inst.Date,
			ScheduledHour:       inst.ScheduledHour,
			ScheduledMinute:     inst.ScheduledMinute,
			Status:              inst.Status,
			ConfirmedBy:         inst.ConfirmedBy,
			ConfirmedAt:         inst.ConfirmedAt,
			SnoozedUntil:        inst.SnoozedUntil,
			IsObservation:       inst.IsObservation,
			ObservationCategory: inst.ObservationCategory,
			ObservationText:     inst.ObservationText,
			Notes:               inst.Notes,
			ItemName:            "Unknown",
			ItemDose:            "",
			ItemType:            types.ItemTypeOral,
		}
		if inst.ItemID != nil {
			if item, ok := itemsByID[*inst.ItemID]; ok {
				e.ItemName = item.Name
				e.ItemDose = item.Dose
				e.ItemType = item.Type
				e.ItemLocation = item.Location
				e.ConflictGroup = item.ConflictGroup
			}
		}
		enriched = append(enriched, e)
	}

	sortByScheduledTime(enriched)
	return enriched, nil
}

// sortByScheduledTime orders ascending by minutes-into-day. Stable so that
// ties keep insertion order.
func sortByScheduledTime(instances []types.EnrichedInstance) {
	sort.SliceStable(instances, func(i, j int) bool {
		a := instances[i].ScheduledHour*60 + instances[i].ScheduledMinute
		b := instances[j].ScheduledHour*60 + instances[j].ScheduledMinute
		return a < b
	})
}
