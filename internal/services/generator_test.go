package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pawlog/pawlog-backend/internal/apperr"
	"github.com/pawlog/pawlog-backend/internal/types"
)

func TestGenerateDailyCreatesPendingInstances(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	pet := te.mustCreatePet(t)

	prednisolone := te.mustCreateItem(t, pet.ID, "Prednisolone", types.ItemTypeEyeDrop, "eye_drops")
	te.mustCreateSchedule(t, prednisolone.ID, 8, 0)
	te.mustCreateSchedule(t, prednisolone.ID, 20, 0)

	galliprant := te.mustCreateItem(t, pet.ID, "Galliprant", types.ItemTypeOral, "")
	te.mustCreateSchedule(t, galliprant.ID, 8, 0)

	retired := te.mustCreateItem(t, pet.ID, "Old Med", types.ItemTypeOral, "")
	te.mustCreateSchedule(t, retired.ID, 12, 0)
	if err := te.itemRepo.Patch(ctx, nil, retired.ID, map[string]any{"is_active": false}); err != nil {
		t.Fatalf("deactivating item: %v", err)
	}

	// Item with no schedules should produce nothing.
	te.mustCreateItem(t, pet.ID, "As Needed", types.ItemTypeTopical, "")

	const date = "2026-03-10"
	if err := te.generator.GenerateDaily(ctx, date); err != nil {
		t.Fatalf("GenerateDaily: %v", err)
	}

	instances, err := te.instanceRepo.ListByDate(ctx, nil, date)
	if err != nil {
		t.Fatalf("listing instances: %v", err)
	}
	if len(instances) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(instances))
	}
	for _, instance := range instances {
		if instance.Status != types.StatusPending {
			t.Errorf("instance %s status = %s, want pending", instance.ID, instance.Status)
		}
		if instance.IsObservation {
			t.Errorf("instance %s unexpectedly flagged as observation", instance.ID)
		}
		if instance.ItemID == nil || instance.ScheduleID == nil {
			t.Errorf("instance %s missing item or schedule link", instance.ID)
		}
		if instance.Date != date {
			t.Errorf("instance %s date = %s, want %s", instance.ID, instance.Date, date)
		}
	}

	slots := map[[2]int]int{}
	for _, instance := range instances {
		slots[[2]int{instance.ScheduledHour, instance.ScheduledMinute}]++
	}
	if slots[[2]int{8, 0}] != 2 || slots[[2]int{20, 0}] != 1 {
		t.Errorf("unexpected slot distribution: %v", slots)
	}
}

func TestGenerateDailyIdempotent(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	pet := te.mustCreatePet(t)
	item := te.mustCreateItem(t, pet.ID, "Fish Oil", types.ItemTypeSupplement, "")
	te.mustCreateSchedule(t, item.ID, 8, 0)

	const date = "2026-03-10"
	if err := te.generator.GenerateDaily(ctx, date); err != nil {
		t.Fatalf("first GenerateDaily: %v", err)
	}
	if err := te.generator.GenerateDaily(ctx, date); err != nil {
		t.Fatalf("second GenerateDaily: %v", err)
	}

	instances, err := te.instanceRepo.ListByDate(ctx, nil, date)
	if err != nil {
		t.Fatalf("listing instances: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("expected 1 instance after double generation, got %d", len(instances))
	}
}

func TestGenerateDailySkipsWhenScheduledInstanceExists(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	pet := te.mustCreatePet(t)
	item := te.mustCreateItem(t, pet.ID, "Fish Oil", types.ItemTypeSupplement, "")
	schedule := te.mustCreateSchedule(t, item.ID, 8, 0)

	const date = "2026-03-10"
	te.mustCreateInstance(t, item, schedule.ID, date, 8, 0)

	// A second item added later must not be generated once the day has
	// any scheduled instance: the whole day is treated as generated.
	other := te.mustCreateItem(t, pet.ID, "Galliprant", types.ItemTypeOral, "")
	te.mustCreateSchedule(t, other.ID, 9, 0)

	if err := te.generator.GenerateDaily(ctx, date); err != nil {
		t.Fatalf("GenerateDaily: %v", err)
	}
	instances, err := te.instanceRepo.ListByDate(ctx, nil, date)
	if err != nil {
		t.Fatalf("listing instances: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("expected generation to be a no-op, got %d instances", len(instances))
	}
}

func TestGenerateDailyRejectsBadDate(t *testing.T) {
	te := newTestEnv(t)
	for _, date := range []string{"", "10-03-2026", "2026/03/10", "tomorrow"} {
		err := te.generator.GenerateDaily(context.Background(), date)
		if !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("GenerateDaily(%q) = %v, want ErrInvalidArgument", date, err)
		}
	}
}
