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
	"github.com/pawlog/pawlog-backend/internal/requestdata"
	"github.com/pawlog/pawlog-backend/internal/types"
)

// TypeFilterObservation is the special GetForDate filter value selecting
// free-standing observations instead of an item type.
const TypeFilterObservation = "observation"

// HistoryService is the read side over past dates: the same enrichment as
// the today view plus the full audit trail per instance, each entry
// resolved to the performer's display name.
type HistoryService interface {
	GetForDate(ctx context.Context, date string, typeFilter string) (*types.HistoryView, error)
}

type historyService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	itemRepo     repos.ItemRepo
	instanceRepo repos.DailyInstanceRepo
	historyRepo  repos.ConfirmationHistoryRepo
}

func NewHistoryService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, itemRepo repos.ItemRepo, instanceRepo repos.DailyInstanceRepo, historyRepo repos.ConfirmationHistoryRepo) HistoryService {
	serviceLog := log.With("service", "HistoryService")
	return &historyService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		itemRepo:     itemRepo,
		instanceRepo: instanceRepo,
		historyRepo:  historyRepo,
	}
}

func (hs *historyService) GetForDate(ctx context.Context, date string, typeFilter string) (*types.HistoryView, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.ExternalID == "" {
		return nil, apperr.ErrNotAuthenticated
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD: %v", apperr.ErrInvalidArgument, err)
	}
	if typeFilter != "" && typeFilter != TypeFilterObservation && !types.ItemType(typeFilter).Valid() {
		return nil, fmt.Errorf("%w: unknown type filter %q", apperr.ErrInvalidArgument, typeFilter)
	}

	raw, err := hs.instanceRepo.ListByDate(ctx, nil, date)
	if err != nil {
		return nil, fmt.Errorf("listing instances: %w", err)
	}
	enriched, err := enrichInstances(ctx, nil, hs.itemRepo, raw)
	if err != nil {
		return nil, err
	}

	// Each instance's trail is read independently; the view is eventually
	// consistent, not snapshot-isolated across instances.
	trails := make(map[uuid.UUID][]*types.ConfirmationHistory, len(enriched))
	performerIDs := make([]uuid.UUID, 0)
	seenPerformers := make(map[uuid.UUID]struct{})
	for _, inst := range enriched {
		entries, err := hs.historyRepo.ListByInstance(ctx, nil, inst.ID)
		if err != nil {
			return nil, fmt.Errorf("listing history for instance %s: %w", inst.ID, err)
		}
		trails[inst.ID] = entries
		for _, entry := range entries {
			if _, ok := seenPerformers[entry.PerformedBy]; ok {
				continue
			}
			seenPerformers[entry.PerformedBy] = struct{}{}
			performerIDs = append(performerIDs, entry.PerformedBy)
		}
	}

	performers, err := hs.userRepo.GetByIDs(ctx, nil, performerIDs)
	if err != nil {
		return nil, fmt.Errorf("loading performers: %w", err)
	}
	namesByID := make(map[uuid.UUID]string, len(performers))
	for _, user := range performers {
		namesByID[user.ID] = user.Name
	}

	instances := make([]types.HistoryInstance, 0, len(enriched))
	for _, inst := range enriched {
		if !matchesTypeFilter(&inst, typeFilter) {
			continue
		}
		auditTrail := make([]types.AuditEntry, 0, len(trails[inst.ID]))
		for _, entry := range trails[inst.ID] {
			userName, ok := namesByID[entry.PerformedBy]
			if !ok {
				userName = "Unknown"
			}
			auditTrail = append(auditTrail, types.AuditEntry{
				Action:      entry.Action,
				UserName:    userName,
				PerformedAt: entry.PerformedAt,
				Notes:       entry.Notes,
			})
		}
		instances = append(instances, types.HistoryInstance{
			EnrichedInstance: inst,
			AuditTrail:       auditTrail,
		})
	}

	return &types.HistoryView{Instances: instances}, nil
}

func matchesTypeFilter(inst *types.EnrichedInstance, typeFilter string) bool {
	switch typeFilter {
	case "":
		return true
	case TypeFilterObservation:
		return inst.IsObservation
	default:
		return !inst.IsObservation && string(inst.ItemType) == typeFilter
	}
}
