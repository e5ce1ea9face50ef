package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/types"
)

type ItemScheduleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, schedule *types.ItemSchedule) (*types.ItemSchedule, error)
	GetByID(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID) (*types.ItemSchedule, error)
	ListByItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) ([]*types.ItemSchedule, error)
	Delete(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type itemScheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemScheduleRepo(db *gorm.DB, baseLog *logger.Logger) ItemScheduleRepo {
	repoLog := baseLog.With("repo", "ItemScheduleRepo")
	return &itemScheduleRepo{db: db, log: repoLog}
}

func (sr *itemScheduleRepo) Create(ctx context.Context, tx *gorm.DB, schedule *types.ItemSchedule) (*types.ItemSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(schedule).Error; err != nil {
		return nil, err
	}
	return schedule, nil
}

func (sr *itemScheduleRepo) GetByID(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID) (*types.ItemSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.ItemSchedule
	if err := transaction.WithContext(ctx).
		Where("id = ?", scheduleID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (sr *itemScheduleRepo) ListByItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) ([]*types.ItemSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.ItemSchedule
	if err := transaction.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("scheduled_hour asc, scheduled_minute asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *itemScheduleRepo) Delete(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", scheduleID).
		Delete(&types.ItemSchedule{}).Error
}

func (sr *itemScheduleRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.ItemSchedule{}).Error
}
