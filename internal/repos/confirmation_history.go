package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/types"
)

// ConfirmationHistoryRepo is append-only from the services' point of view:
// entries are never patched, only created, listed and (by the test-reset
// collaborator) bulk-deleted.
type ConfirmationHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.ConfirmationHistory) (*types.ConfirmationHistory, error)
	ListByInstance(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) ([]*types.ConfirmationHistory, error)
	CountByInstance(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) (int64, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type confirmationHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConfirmationHistoryRepo(db *gorm.DB, baseLog *logger.Logger) ConfirmationHistoryRepo {
	repoLog := baseLog.With("repo", "ConfirmationHistoryRepo")
	return &confirmationHistoryRepo{db: db, log: repoLog}
}

func (hr *confirmationHistoryRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.ConfirmationHistory) (*types.ConfirmationHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (hr *confirmationHistoryRepo) ListByInstance(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) ([]*types.ConfirmationHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	var results []*types.ConfirmationHistory
	if err := transaction.WithContext(ctx).
		Where("instance_id = ?", instanceID).
		Order("performed_at asc, created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (hr *confirmationHistoryRepo) CountByInstance(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ConfirmationHistory{}).
		Where("instance_id = ?", instanceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (hr *confirmationHistoryRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	return transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.ConfirmationHistory{}).Error
}
