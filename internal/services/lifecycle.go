package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/apperr"
	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/repos"
	"github.com/pawlog/pawlog-backend/internal/types"
)

// LifecycleService is the state machine over DailyInstance.Status. Every
// mutation runs as one transaction pairing the instance patch with its
// audit entry; there is never a state change without a matching
// ConfirmationHistory row (observations excepted, they are born confirmed).
type LifecycleService interface {
	Confirm(ctx context.Context, instanceID uuid.UUID, notes string) error
	Snooze(ctx context.Context, instanceID uuid.UUID, durationMinutes int) error
	// Undo never fails on the current status: whatever state the instance
	// is in, it goes back to pending with all action fields cleared.
	Undo(ctx context.Context, instanceID uuid.UUID) error
	// AddObservation inserts a free-standing record dated to the current
	// local day, already confirmed. No audit entry: an observation is
	// self-evidently done at creation. Returns the new instance id.
	AddObservation(ctx context.Context, petID uuid.UUID, category types.ObservationCategory, text string) (uuid.UUID, error)
}

type lifecycleService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	instanceRepo repos.DailyInstanceRepo
	historyRepo  repos.ConfirmationHistoryRepo
}

func NewLifecycleService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, instanceRepo repos.DailyInstanceRepo, historyRepo repos.ConfirmationHistoryRepo) LifecycleService {
	serviceLog := log.With("service", "LifecycleService")
	return &lifecycleService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		instanceRepo: instanceRepo,
		historyRepo:  historyRepo,
	}
}

func (ls *lifecycleService) Confirm(ctx context.Context, instanceID uuid.UUID, notes string) error {
	return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(ctx, tx, ls.userRepo)
		if err != nil {
			return err
		}
		instance, err := ls.instanceRepo.GetByID(ctx, tx, instanceID)
		if err != nil {
			return fmt.Errorf("loading instance: %w", err)
		}
		if instance == nil {
			return apperr.ErrInstanceNotFound
		}
		if instance.Status == types.StatusConfirmed {
			return apperr.ErrAlreadyConfirmed
		}

		now := time.Now().UnixMilli()
		if err := ls.instanceRepo.Patch(ctx, tx, instanceID, map[string]interface{}{
			"status":        types.StatusConfirmed,
			"confirmed_by":  actor.ID,
			"confirmed_at":  now,
			"snoozed_until": nil,
		}); err != nil {
			return fmt.Errorf("confirming instance: %w", err)
		}

		entry := &types.ConfirmationHistory{
			ID:          uuid.New(),
			InstanceID:  instanceID,
			Action:      types.ActionConfirmed,
			PerformedBy: actor.ID,
			PerformedAt: now,
			Notes:       optionalNotes(notes),
		}
		if _, err := ls.historyRepo.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("recording confirmation: %w", err)
		}
		ls.log.Debug("Instance confirmed", "instance_id", instanceID, "user_id", actor.ID)
		return nil
	})
}

func (ls *lifecycleService) Snooze(ctx context.Context, instanceID uuid.UUID, durationMinutes int) error {
	if durationMinutes <= 0 {
		return fmt.Errorf("%w: snooze duration must be positive", apperr.ErrInvalidArgument)
	}
	return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(ctx, tx, ls.userRepo)
		if err != nil {
			return err
		}
		instance, err := ls.instanceRepo.GetByID(ctx, tx, instanceID)
		if err != nil {
			return fmt.Errorf("loading instance: %w", err)
		}
		if instance == nil {
			return apperr.ErrInstanceNotFound
		}
		if instance.Status == types.StatusConfirmed {
			return apperr.ErrCannotSnoozeConfirmed
		}

		// Re-snoozing replaces the window rather than stacking.
		now := time.Now().UnixMilli()
		snoozedUntil := now + int64(durationMinutes)*60*1000
		if err := ls.instanceRepo.Patch(ctx, tx, instanceID, map[string]interface{}{
			"status":        types.StatusSnoozed,
			"snoozed_until": snoozedUntil,
		}); err != nil {
			return fmt.Errorf("snoozing instance: %w", err)
		}

		notes := fmt.Sprintf("Snoozed for %d minutes", durationMinutes)
		entry := &types.ConfirmationHistory{
			ID:          uuid.New(),
			InstanceID:  instanceID,
			Action:      types.ActionSnoozed,
			PerformedBy: actor.ID,
			PerformedAt: now,
			Notes:       &notes,
		}
		if _, err := ls.historyRepo.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("recording snooze: %w", err)
		}
		ls.log.Debug("Instance snoozed", "instance_id", instanceID, "until", snoozedUntil)
		return nil
	})
}

func (ls *lifecycleService) Undo(ctx context.Context, instanceID uuid.UUID) error {
	return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(ctx, tx, ls.userRepo)
		if err != nil {
			return err
		}
		instance, err := ls.instanceRepo.GetByID(ctx, tx, instanceID)
		if err != nil {
			return fmt.Errorf("loading instance: %w", err)
		}
		if instance == nil {
			return apperr.ErrInstanceNotFound
		}

		// Unconditional clear: undo from confirmed, snoozed or pending all
		// land on the same pending state with no action fields left over.
		if err := ls.instanceRepo.Patch(ctx, tx, instanceID, map[string]interface{}{
			"status":        types.StatusPending,
			"confirmed_by":  nil,
			"confirmed_at":  nil,
			"snoozed_until": nil,
		}); err != nil {
			return fmt.Errorf("undoing instance: %w", err)
		}

		entry := &types.ConfirmationHistory{
			ID:          uuid.New(),
			InstanceID:  instanceID,
			Action:      types.ActionUnconfirmed,
			PerformedBy: actor.ID,
			PerformedAt: time.Now().UnixMilli(),
		}
		if _, err := ls.historyRepo.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("recording undo: %w", err)
		}
		ls.log.Debug("Instance undone", "instance_id", instanceID, "user_id", actor.ID)
		return nil
	})
}

func (ls *lifecycleService) AddObservation(ctx context.Context, petID uuid.UUID, category types.ObservationCategory, text string) (uuid.UUID, error) {
	if !category.Valid() {
		return uuid.Nil, fmt.Errorf("%w: unknown observation category %q", apperr.ErrInvalidArgument, category)
	}
	if strings.TrimSpace(text) == "" {
		return uuid.Nil, fmt.Errorf("%w: observation text is required", apperr.ErrInvalidArgument)
	}

	var instanceID uuid.UUID
	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(ctx, tx, ls.userRepo)
		if err != nil {
			return err
		}

		now := time.Now()
		nowMs := now.UnixMilli()
		actorID := actor.ID
		instance := &types.DailyInstance{
			ID:                  uuid.New(),
			PetID:               petID,
			Date:                localDateString(now),
			ScheduledHour:       now.Hour(),
			ScheduledMinute:     now.Minute(),
			Status:              types.StatusConfirmed,
			ConfirmedBy:         &actorID,
			ConfirmedAt:         &nowMs,
			IsObservation:       true,
			ObservationCategory: category,
			ObservationText:     text,
		}
		if _, err := ls.instanceRepo.Create(ctx, tx, instance); err != nil {
			return fmt.Errorf("creating observation: %w", err)
		}
		instanceID = instance.ID
		ls.log.Debug("Observation added", "instance_id", instanceID, "category", category)
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return instanceID, nil
}

// optionalNotes stores empty caller notes as absent rather than "".
func optionalNotes(notes string) *string {
	if notes == "" {
		return nil
	}
	return &notes
}
