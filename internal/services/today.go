package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/apperr"
	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/repos"
	"github.com/pawlog/pawlog-backend/internal/types"
)

// conflictWindowMs is how long after confirming one item its conflict-group
// peers stay blocked.
const conflictWindowMs = 5 * 60 * 1000

// TodayService computes the dashboard projection for one date: enriched
// instances in scheduled order, done/total progress, the hero item and
// conflict warnings. Read-only; takes an optional now override (epoch ms)
// so time-dependent logic is testable.
type TodayService interface {
	GetToday(ctx context.Context, date string, nowMillis *int64) (*types.TodayView, error)
}

type todayService struct {
	db           *gorm.DB
	log          *logger.Logger
	itemRepo     repos.ItemRepo
	instanceRepo repos.DailyInstanceRepo
}

func NewTodayService(db *gorm.DB, log *logger.Logger, itemRepo repos.ItemRepo, instanceRepo repos.DailyInstanceRepo) TodayService {
	serviceLog := log.With("service", "TodayService")
	return &todayService{db: db, log: serviceLog, itemRepo: itemRepo, instanceRepo: instanceRepo}
}

func (ts *todayService) GetToday(ctx context.Context, date string, nowMillis *int64) (*types.TodayView, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD: %v", apperr.ErrInvalidArgument, err)
	}

	now := time.Now()
	if nowMillis != nil {
		now = time.UnixMilli(*nowMillis)
	}
	nowMs := now.UnixMilli()
	currentMinutes := now.Hour()*60 + now.Minute()

	raw, err := ts.instanceRepo.ListByDate(ctx, nil, date)
	if err != nil {
		return nil, fmt.Errorf("listing instances: %w", err)
	}
	instances, err := enrichInstances(ctx, nil, ts.itemRepo, raw)
	if err != nil {
		return nil, err
	}

	annotateConflicts(instances, nowMs)

	progress := types.Progress{}
	for _, inst := range instances {
		if inst.IsObservation {
			continue
		}
		progress.Total++
		if inst.Status == types.StatusConfirmed {
			progress.Done++
		}
	}

	view := &types.TodayView{
		Instances: instances,
		HeroItem:  selectHero(instances, nowMs, currentMinutes),
		Progress:  progress,
	}
	return view, nil
}

// actionable means the instance still wants attention right now: pending,
// or snoozed with the snooze window already expired.
func actionable(inst *types.EnrichedInstance, nowMs int64) bool {
	if inst.Status == types.StatusPending {
		return true
	}
	return inst.Status == types.StatusSnoozed && inst.SnoozedUntil != nil && *inst.SnoozedUntil < nowMs
}

// annotateConflicts attaches a warning to every actionable instance whose
// conflict group had another member confirmed within the last five
// minutes. The first matching peer wins, not necessarily the nearest one.
func annotateConflicts(instances []types.EnrichedInstance, nowMs int64) {
	for i := range instances {
		inst := &instances[i]
		if inst.IsObservation || inst.ConflictGroup == "" || !actionable(inst, nowMs) {
			continue
		}
		for j := range instances {
			if j == i {
				continue
			}
			other := &instances[j]
			if other.ConflictGroup != inst.ConflictGroup || other.Status != types.StatusConfirmed {
				continue
			}
			if other.ConfirmedAt == nil {
				continue
			}
			elapsed := nowMs - *other.ConfirmedAt
			if elapsed >= 0 && elapsed < conflictWindowMs {
				inst.ConflictWarning = fmt.Sprintf("Wait 5 min after %s", other.ItemName)
				break
			}
		}
	}
}

// selectHero picks the single most urgent actionable instance: the
// earliest-sorted hero-eligible instance that is already due, falling back
// to the earliest hero-eligible regardless of time, or nil when all clear.
// Instances must already be sorted by scheduled time.
func selectHero(instances []types.EnrichedInstance, nowMs int64, currentMinutes int) *types.EnrichedInstance {
	var fallback *types.EnrichedInstance
	for i := range instances {
		inst := &instances[i]
		if inst.IsObservation || !actionable(inst, nowMs) {
			continue
		}
		if inst.ScheduledHour*60+inst.ScheduledMinute <= currentMinutes {
			hero := *inst
			return &hero
		}
		if fallback == nil {
			fallback = inst
		}
	}
	if fallback == nil {
		return nil
	}
	hero := *fallback
	return &hero
}
