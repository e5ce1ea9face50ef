package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/types"
)

type ItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, item *types.Item) (*types.Item, error)
	GetByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.Item, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.Item, error)
	ListByPet(ctx context.Context, tx *gorm.DB, petID uuid.UUID) ([]*types.Item, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Item, error)
	Patch(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, patch map[string]interface{}) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type itemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	repoLog := baseLog.With("repo", "ItemRepo")
	return &itemRepo{db: db, log: repoLog}
}

func (ir *itemRepo) Create(ctx context.Context, tx *gorm.DB, item *types.Item) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if err := transaction.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (ir *itemRepo) GetByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var result types.Item
	if err := transaction.WithContext(ctx).
		Where("id = ?", itemID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ir *itemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Item
	if len(itemIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", itemIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *itemRepo) ListByPet(ctx context.Context, tx *gorm.DB, petID uuid.UUID) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *itemRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *itemRepo) Patch(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, patch map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(patch) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("id = ?", itemID).
		Updates(patch).Error
}

func (ir *itemRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.Item{}).Error
}
