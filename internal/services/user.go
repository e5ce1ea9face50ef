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

type UserService interface {
	// GetOrCreate provisions the caller on first login and bumps
	// LastSeenAt on every later call.
	GetOrCreate(ctx context.Context) (*types.User, error)
	// Current returns the caller's user record, or nil when the caller
	// has no identity or is not provisioned yet.
	Current(ctx context.Context) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetOrCreate(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.ExternalID == "" {
		return nil, apperr.ErrNotAuthenticated
	}

	var result *types.User
	// The count-then-assign role check rides the same transaction as the
	// insert so two first logins cannot both become admin.
	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := us.userRepo.GetByExternalID(ctx, tx, rd.ExternalID)
		if err != nil {
			return fmt.Errorf("looking up user: %w", err)
		}
		if existing != nil {
			now := time.Now().UnixMilli()
			if err := us.userRepo.UpdateLastSeen(ctx, tx, existing.ID, now); err != nil {
				return fmt.Errorf("updating last seen: %w", err)
			}
			existing.LastSeenAt = &now
			result = existing
			return nil
		}

		count, err := us.userRepo.Count(ctx, tx)
		if err != nil {
			return fmt.Errorf("counting users: %w", err)
		}
		role := types.RoleCaretaker
		if count == 0 {
			role = types.RoleAdmin
		}

		name := rd.Name
		if name == "" {
			name = "Unknown"
		}
		now := time.Now().UnixMilli()
		user := &types.User{
			ID:         uuid.New(),
			ExternalID: rd.ExternalID,
			Name:       name,
			Email:      rd.Email,
			Role:       role,
			AvatarURL:  rd.AvatarURL,
			LastSeenAt: &now,
		}
		created, err := us.userRepo.Create(ctx, tx, user)
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		us.log.Info("Provisioned user", "user_id", created.ID, "role", created.Role)
		result = created
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (us *userService) Current(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.ExternalID == "" {
		return nil, nil
	}
	return us.userRepo.GetByExternalID(ctx, nil, rd.ExternalID)
}
