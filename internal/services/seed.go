package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/repos"
	"github.com/pawlog/pawlog-backend/internal/types"
)

// SeedService provisions demo data and, for end-to-end runs, resets the
// whole store to a known state. It is the only collaborator allowed to
// delete instances or history.
type SeedService interface {
	// SeedDemoData is idempotent: it does nothing once a pet exists.
	SeedDemoData(ctx context.Context) error
	// ResetForTest wipes everything, reseeds the demo data and generates
	// today's instances. Returns the date it generated for.
	ResetForTest(ctx context.Context) (string, error)
}

type seedService struct {
	db           *gorm.DB
	log          *logger.Logger
	petRepo      repos.PetRepo
	itemRepo     repos.ItemRepo
	scheduleRepo repos.ItemScheduleRepo
	instanceRepo repos.DailyInstanceRepo
	historyRepo  repos.ConfirmationHistoryRepo
}

func NewSeedService(db *gorm.DB, log *logger.Logger, petRepo repos.PetRepo, itemRepo repos.ItemRepo, scheduleRepo repos.ItemScheduleRepo, instanceRepo repos.DailyInstanceRepo, historyRepo repos.ConfirmationHistoryRepo) SeedService {
	serviceLog := log.With("service", "SeedService")
	return &seedService{
		db:           db,
		log:          serviceLog,
		petRepo:      petRepo,
		itemRepo:     itemRepo,
		scheduleRepo: scheduleRepo,
		instanceRepo: instanceRepo,
		historyRepo:  historyRepo,
	}
}

func (ss *seedService) SeedDemoData(ctx context.Context) error {
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ss.seedDemoData(ctx, tx)
	})
}

func (ss *seedService) seedDemoData(ctx context.Context, tx *gorm.DB) error {
	existing, err := ss.petRepo.First(ctx, tx)
	if err != nil {
		return fmt.Errorf("checking for existing pet: %w", err)
	}
	if existing != nil {
		return nil
	}

	pet := &types.Pet{ID: uuid.New(), Name: "Yuki", Species: "dog", IsActive: true}
	if _, err := ss.petRepo.Create(ctx, tx, pet); err != nil {
		return fmt.Errorf("creating pet: %w", err)
	}

	prednisolone := &types.Item{
		ID:            uuid.New(),
		PetID:         pet.ID,
		Name:          "Prednisolone",
		Dose:          "1 drop, left eye",
		Type:          types.ItemTypeEyeDrop,
		Location:      "Fridge",
		ConflictGroup: "eye_drops",
		IsActive:      true,
	}
	cyclosporine := &types.Item{
		ID:            uuid.New(),
		PetID:         pet.ID,
		Name:          "Cyclosporine",
		Dose:          "1 drop, both eyes",
		Type:          types.ItemTypeEyeDrop,
		Location:      "Cabinet",
		Notes:         "Must wait 5 min after Prednisolone",
		ConflictGroup: "eye_drops",
		IsActive:      true,
	}
	galliprant := &types.Item{
		ID:       uuid.New(),
		PetID:    pet.ID,
		Name:     "Galliprant",
		Dose:     "20mg tablet",
		Type:     types.ItemTypeOral,
		Location: "Cabinet",
		Notes:    "Give with food",
		IsActive: true,
	}
	fishOil := &types.Item{
		ID:       uuid.New(),
		PetID:    pet.ID,
		Name:     "Fish Oil",
		Dose:     "1 pump",
		Type:     types.ItemTypeSupplement,
		Location: "Cabinet",
		IsActive: true,
	}
	for _, item := range []*types.Item{prednisolone, cyclosporine, galliprant, fishOil} {
		if _, err := ss.itemRepo.Create(ctx, tx, item); err != nil {
			return fmt.Errorf("creating item %s: %w", item.Name, err)
		}
	}

	schedules := []*types.ItemSchedule{
		{ID: uuid.New(), ItemID: prednisolone.ID, TimeOfDay: types.TimeOfDayMorning, ScheduledHour: 8, ScheduledMinute: 0},
		{ID: uuid.New(), ItemID: prednisolone.ID, TimeOfDay: types.TimeOfDayEvening, ScheduledHour: 20, ScheduledMinute: 0},
		// Cyclosporine runs 5 minutes after Prednisolone on purpose: the
		// two share the eye_drops conflict group.
		{ID: uuid.New(), ItemID: cyclosporine.ID, TimeOfDay: types.TimeOfDayMorning, ScheduledHour: 8, ScheduledMinute: 5},
		{ID: uuid.New(), ItemID: cyclosporine.ID, TimeOfDay: types.TimeOfDayEvening, ScheduledHour: 20, ScheduledMinute: 5},
		{ID: uuid.New(), ItemID: galliprant.ID, TimeOfDay: types.TimeOfDayMorning, ScheduledHour: 8, ScheduledMinute: 0},
		{ID: uuid.New(), ItemID: fishOil.ID, TimeOfDay: types.TimeOfDayMorning, ScheduledHour: 8, ScheduledMinute: 0},
	}
	for _, schedule := range schedules {
		if _, err := ss.scheduleRepo.Create(ctx, tx, schedule); err != nil {
			return fmt.Errorf("creating schedule: %w", err)
		}
	}

	ss.log.Info("Seeded demo data", "pet", pet.Name)
	return nil
}

func (ss *seedService) ResetForTest(ctx context.Context) (string, error) {
	today := localDateString(time.Now())
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.historyRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("deleting history: %w", err)
		}
		if err := ss.instanceRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("deleting instances: %w", err)
		}
		if err := ss.scheduleRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("deleting schedules: %w", err)
		}
		if err := ss.itemRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("deleting items: %w", err)
		}
		if err := ss.petRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("deleting pets: %w", err)
		}
		if err := ss.seedDemoData(ctx, tx); err != nil {
			return err
		}
		if _, err := generateInstancesForDate(ctx, tx, ss.itemRepo, ss.scheduleRepo, ss.instanceRepo, today); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	ss.log.Info("Store reset for test", "date", today)
	return today, nil
}
