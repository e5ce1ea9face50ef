package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/types"
)

type PetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, pet *types.Pet) (*types.Pet, error)
	GetByID(ctx context.Context, tx *gorm.DB, petID uuid.UUID) (*types.Pet, error)
	First(ctx context.Context, tx *gorm.DB) (*types.Pet, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type petRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPetRepo(db *gorm.DB, baseLog *logger.Logger) PetRepo {
	repoLog := baseLog.With("repo", "PetRepo")
	return &petRepo{db: db, log: repoLog}
}

func (pr *petRepo) Create(ctx context.Context, tx *gorm.DB, pet *types.Pet) (*types.Pet, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(pet).Error; err != nil {
		return nil, err
	}
	return pet, nil
}

func (pr *petRepo) GetByID(ctx context.Context, tx *gorm.DB, petID uuid.UUID) (*types.Pet, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.Pet
	if err := transaction.WithContext(ctx).
		Where("id = ?", petID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *petRepo) First(ctx context.Context, tx *gorm.DB) (*types.Pet, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.Pet
	if err := transaction.WithContext(ctx).
		Order("created_at asc").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *petRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.Pet{}).Error
}
