package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/apperr"
	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/repos"
	"github.com/pawlog/pawlog-backend/internal/types"
)

type ScheduleInput struct {
	TimeOfDay       types.TimeOfDay `json:"time_of_day"`
	ScheduledHour   int             `json:"scheduled_hour"`
	ScheduledMinute int             `json:"scheduled_minute"`
	DaysOfWeek      []int           `json:"days_of_week,omitempty"`
}

type AddItemInput struct {
	PetID         uuid.UUID       `json:"pet_id"`
	Name          string          `json:"name"`
	Dose          string          `json:"dose"`
	Type          types.ItemType  `json:"type"`
	Location      string          `json:"location,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	ConflictGroup string          `json:"conflict_group,omitempty"`
	Schedules     []ScheduleInput `json:"schedules"`
}

// UpdateItemInput patches only the fields that are non-nil.
type UpdateItemInput struct {
	Name          *string         `json:"name,omitempty"`
	Dose          *string         `json:"dose,omitempty"`
	Type          *types.ItemType `json:"type,omitempty"`
	Location      *string         `json:"location,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	ConflictGroup *string         `json:"conflict_group,omitempty"`
}

// CatalogService is the admin-facing CRUD over items and schedules. It only
// shapes the inputs the engine consumes; instance state never changes here.
// Every operation requires the admin role.
type CatalogService interface {
	ListItems(ctx context.Context, petID uuid.UUID) ([]types.ItemWithSchedules, error)
	GetPet(ctx context.Context) (*types.Pet, error)
	AddItem(ctx context.Context, input AddItemInput) (uuid.UUID, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) error
	SetItemActive(ctx context.Context, itemID uuid.UUID, active bool) error
	AddSchedule(ctx context.Context, itemID uuid.UUID, input ScheduleInput) (uuid.UUID, error)
	RemoveSchedule(ctx context.Context, scheduleID uuid.UUID) error
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	petRepo      repos.PetRepo
	itemRepo     repos.ItemRepo
	scheduleRepo repos.ItemScheduleRepo
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, petRepo repos.PetRepo, itemRepo repos.ItemRepo, scheduleRepo repos.ItemScheduleRepo) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		petRepo:      petRepo,
		itemRepo:     itemRepo,
		scheduleRepo: scheduleRepo,
	}
}

func (cs *catalogService) requireAdmin(ctx context.Context, tx *gorm.DB) (*types.User, error) {
	actor, err := resolveActor(ctx, tx, cs.userRepo)
	if err != nil {
		return nil, err
	}
	if actor.Role != types.RoleAdmin {
		return nil, apperr.ErrAdminRequired
	}
	return actor, nil
}

func validateScheduleInput(input ScheduleInput) error {
	if !input.TimeOfDay.Valid() {
		return fmt.Errorf("%w: unknown time of day %q", apperr.ErrInvalidArgument, input.TimeOfDay)
	}
	if input.ScheduledHour < 0 || input.ScheduledHour > 23 {
		return fmt.Errorf("%w: scheduled hour out of range: %d", apperr.ErrInvalidArgument, input.ScheduledHour)
	}
	if input.ScheduledMinute < 0 || input.ScheduledMinute > 59 {
		return fmt.Errorf("%w: scheduled minute out of range: %d", apperr.ErrInvalidArgument, input.ScheduledMinute)
	}
	return nil
}

func (cs *catalogService) ListItems(ctx context.Context, petID uuid.UUID) ([]types.ItemWithSchedules, error) {
	if _, err := cs.requireAdmin(ctx, nil); err != nil {
		return nil, err
	}
	items, err := cs.itemRepo.ListByPet(ctx, nil, petID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	results := make([]types.ItemWithSchedules, 0, len(items))
	for _, item := range items {
		schedules, err := cs.scheduleRepo.ListByItem(ctx, nil, item.ID)
		if err != nil {
			return nil, fmt.Errorf("listing schedules for item %s: %w", item.ID, err)
		}
		withSchedules := types.ItemWithSchedules{Item: *item}
		for _, schedule := range schedules {
			withSchedules.Schedules = append(withSchedules.Schedules, *schedule)
		}
		results = append(results, withSchedules)
	}
	return results, nil
}

func (cs *catalogService) GetPet(ctx context.Context) (*types.Pet, error) {
	if _, err := cs.requireAdmin(ctx, nil); err != nil {
		return nil, err
	}
	return cs.petRepo.First(ctx, nil)
}

func (cs *catalogService) AddItem(ctx context.Context, input AddItemInput) (uuid.UUID, error) {
	if !input.Type.Valid() {
		return uuid.Nil, fmt.Errorf("%w: unknown item type %q", apperr.ErrInvalidArgument, input.Type)
	}
	if input.Name == "" {
		return uuid.Nil, fmt.Errorf("%w: item name is required", apperr.ErrInvalidArgument)
	}
	for _, schedule := range input.Schedules {
		if err := validateScheduleInput(schedule); err != nil {
			return uuid.Nil, err
		}
	}

	var itemID uuid.UUID
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.requireAdmin(ctx, tx); err != nil {
			return err
		}
		item := &types.Item{
			ID:            uuid.New(),
			PetID:         input.PetID,
			Name:          input.Name,
			Dose:          input.Dose,
			Type:          input.Type,
			Location:      input.Location,
			Notes:         input.Notes,
			ConflictGroup: input.ConflictGroup,
			IsActive:      true,
		}
		if _, err := cs.itemRepo.Create(ctx, tx, item); err != nil {
			return fmt.Errorf("creating item: %w", err)
		}
		for _, scheduleInput := range input.Schedules {
			schedule := &types.ItemSchedule{
				ID:              uuid.New(),
				ItemID:          item.ID,
				TimeOfDay:       scheduleInput.TimeOfDay,
				ScheduledHour:   scheduleInput.ScheduledHour,
				ScheduledMinute: scheduleInput.ScheduledMinute,
				DaysOfWeek:      datatypes.NewJSONSlice(scheduleInput.DaysOfWeek),
			}
			if _, err := cs.scheduleRepo.Create(ctx, tx, schedule); err != nil {
				return fmt.Errorf("creating schedule: %w", err)
			}
		}
		itemID = item.ID
		cs.log.Info("Item added", "item_id", itemID, "schedules", len(input.Schedules))
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return itemID, nil
}

func (cs *catalogService) UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) error {
	if input.Type != nil && !input.Type.Valid() {
		return fmt.Errorf("%w: unknown item type %q", apperr.ErrInvalidArgument, *input.Type)
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.requireAdmin(ctx, tx); err != nil {
			return err
		}
		item, err := cs.itemRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return fmt.Errorf("loading item: %w", err)
		}
		if item == nil {
			return apperr.ErrItemNotFound
		}

		patch := map[string]interface{}{}
		if input.Name != nil {
			patch["name"] = *input.Name
		}
		if input.Dose != nil {
			patch["dose"] = *input.Dose
		}
		if input.Type != nil {
			patch["type"] = *input.Type
		}
		if input.Location != nil {
			patch["location"] = *input.Location
		}
		if input.Notes != nil {
			patch["notes"] = *input.Notes
		}
		if input.ConflictGroup != nil {
			patch["conflict_group"] = *input.ConflictGroup
		}
		if len(patch) == 0 {
			return nil
		}
		return cs.itemRepo.Patch(ctx, tx, itemID, patch)
	})
}

func (cs *catalogService) SetItemActive(ctx context.Context, itemID uuid.UUID, active bool) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.requireAdmin(ctx, tx); err != nil {
			return err
		}
		item, err := cs.itemRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return fmt.Errorf("loading item: %w", err)
		}
		if item == nil {
			return apperr.ErrItemNotFound
		}
		return cs.itemRepo.Patch(ctx, tx, itemID, map[string]interface{}{"is_active": active})
	})
}

func (cs *catalogService) AddSchedule(ctx context.Context, itemID uuid.UUID, input ScheduleInput) (uuid.UUID, error) {
	if err := validateScheduleInput(input); err != nil {
		return uuid.Nil, err
	}
	var scheduleID uuid.UUID
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.requireAdmin(ctx, tx); err != nil {
			return err
		}
		item, err := cs.itemRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return fmt.Errorf("loading item: %w", err)
		}
		if item == nil {
			return apperr.ErrItemNotFound
		}
		schedule := &types.ItemSchedule{
			ID:              uuid.New(),
			ItemID:          itemID,
			TimeOfDay:       input.TimeOfDay,
			ScheduledHour:   input.ScheduledHour,
			ScheduledMinute: input.ScheduledMinute,
			DaysOfWeek:      datatypes.NewJSONSlice(input.DaysOfWeek),
		}
		if _, err := cs.scheduleRepo.Create(ctx, tx, schedule); err != nil {
			return fmt.Errorf("creating schedule: %w", err)
		}
		scheduleID = schedule.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return scheduleID, nil
}

func (cs *catalogService) RemoveSchedule(ctx context.Context, scheduleID uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.requireAdmin(ctx, tx); err != nil {
			return err
		}
		schedule, err := cs.scheduleRepo.GetByID(ctx, tx, scheduleID)
		if err != nil {
			return fmt.Errorf("loading schedule: %w", err)
		}
		if schedule == nil {
			return apperr.ErrScheduleNotFound
		}
		return cs.scheduleRepo.Delete(ctx, tx, scheduleID)
	})
}
