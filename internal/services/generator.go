package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/apperr"
	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/repos"
	"github.com/pawlog/pawlog-backend/internal/types"
)

const dateLayout = "2006-01-02"

func localDateString(t time.Time) string {
	return t.Format(dateLayout)
}

// GeneratorService expands the active catalog into concrete per-day
// instances. It is trigger-agnostic: the daily cron in internal/scheduler
// and the test-seed collaborator are the only callers.
type GeneratorService interface {
	// GenerateDaily is idempotent per date: if any scheduled instance
	// already exists for the date it is a no-op.
	GenerateDaily(ctx context.Context, date string) error
}

type generatorService struct {
	db           *gorm.DB
	log          *logger.Logger
	itemRepo     repos.ItemRepo
	scheduleRepo repos.ItemScheduleRepo
	instanceRepo repos.DailyInstanceRepo
}

func NewGeneratorService(db *gorm.DB, log *logger.Logger, itemRepo repos.ItemRepo, scheduleRepo repos.ItemScheduleRepo, instanceRepo repos.DailyInstanceRepo) GeneratorService {
	serviceLog := log.With("service", "GeneratorService")
	return &generatorService{
		db:           db,
		log:          serviceLog,
		itemRepo:     itemRepo,
		scheduleRepo: scheduleRepo,
		instanceRepo: instanceRepo,
	}
}

func (gs *generatorService) GenerateDaily(ctx context.Context, date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD: %v", apperr.ErrInvalidArgument, err)
	}
	return gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := generateInstancesForDate(ctx, tx, gs.itemRepo, gs.scheduleRepo, gs.instanceRepo, date)
		if err != nil {
			return err
		}
		if created > 0 {
			gs.log.Info("Generated daily instances", "date", date, "count", created)
		} else {
			gs.log.Debug("Daily instances already present, skipping", "date", date)
		}
		return nil
	})
}

// generateInstancesForDate is the shared expansion used by GenerateDaily
// and by the test-reset collaborator inside its own transaction. Returns
// the number of instances inserted (0 on the idempotent no-op path).
func generateInstancesForDate(ctx context.Context, tx *gorm.DB, itemRepo repos.ItemRepo, scheduleRepo repos.ItemScheduleRepo, instanceRepo repos.DailyInstanceRepo, date string) (int, error) {
	exists, err := instanceRepo.ScheduledExistsForDate(ctx, tx, date)
	if err != nil {
		return 0, fmt.Errorf("probing existing instances: %w", err)
	}
	if exists {
		return 0, nil
	}

	items, err := itemRepo.ListActive(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("listing active items: %w", err)
	}

	created := 0
	for _, item := range items {
		schedules, err := scheduleRepo.ListByItem(ctx, tx, item.ID)
		if err != nil {
			return 0, fmt.Errorf("listing schedules for item %s: %w", item.ID, err)
		}
		for _, schedule := range schedules {
			itemID := item.ID
			scheduleID := schedule.ID
			instance := &types.DailyInstance{
				ID:              uuid.New(),
				ItemID:          &itemID,
				ScheduleID:      &scheduleID,
				PetID:           item.PetID,
				Date:            date,
				ScheduledHour:   schedule.ScheduledHour,
				ScheduledMinute: schedule.ScheduledMinute,
				Status:          types.StatusPending,
				IsObservation:   false,
			}
			if _, err := instanceRepo.Create(ctx, tx, instance); err != nil {
				return 0, fmt.Errorf("creating instance for item %s: %w", item.ID, err)
			}
			created++
		}
	}
	return created, nil
}
