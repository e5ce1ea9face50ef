package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/types"
)

type DailyInstanceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, instance *types.DailyInstance) (*types.DailyInstance, error)
	GetByID(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) (*types.DailyInstance, error)
	ListByDate(ctx context.Context, tx *gorm.DB, date string) ([]*types.DailyInstance, error)
	ScheduledExistsForDate(ctx context.Context, tx *gorm.DB, date string) (bool, error)
	Patch(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, patch map[string]interface{}) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type dailyInstanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyInstanceRepo(db *gorm.DB, baseLog *logger.Logger) DailyInstanceRepo {
	repoLog := baseLog.With("repo", "DailyInstanceRepo")
	return &dailyInstanceRepo{db: db, log: repoLog}
}

func (dr *dailyInstanceRepo) Create(ctx context.Context, tx *gorm.DB, instance *types.DailyInstance) (*types.DailyInstance, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if err := transaction.WithContext(ctx).Create(instance).Error; err != nil {
		return nil, err
	}
	return instance, nil
}

func (dr *dailyInstanceRepo) GetByID(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) (*types.DailyInstance, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var result types.DailyInstance
	if err := transaction.WithContext(ctx).
		Where("id = ?", instanceID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// ListByDate returns every instance for one calendar date in insertion
// order. The read-side services re-sort by scheduled time; keeping
// insertion order here is what makes that sort's tie-breaking stable.
func (dr *dailyInstanceRepo) ListByDate(ctx context.Context, tx *gorm.DB, date string) ([]*types.DailyInstance, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var results []*types.DailyInstance
	if err := transaction.WithContext(ctx).
		Where("date = ?", date).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ScheduledExistsForDate is the generator's idempotency probe: true when
// any non-observation instance already exists for the date.
func (dr *dailyInstanceRepo) ScheduledExistsForDate(ctx context.Context, tx *gorm.DB, date string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.DailyInstance{}).
		Where("date = ? AND is_observation = ?", date, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (dr *dailyInstanceRepo) Patch(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, patch map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if len(patch) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.DailyInstance{}).
		Where("id = ?", instanceID).
		Updates(patch).Error
}

func (dr *dailyInstanceRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.DailyInstance{}).Error
}
