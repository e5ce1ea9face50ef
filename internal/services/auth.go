package services

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/apperr"
	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/repos"
	"github.com/pawlog/pawlog-backend/internal/requestdata"
	"github.com/pawlog/pawlog-backend/internal/types"
)

// AuthService verifies bearer tokens minted by the external identity
// provider and attaches the caller's claims to the request context. It
// never touches the user table; provisioning is UserService's job.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey string
}

type identityClaims struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	jwt.RegisteredClaims
}

func NewAuthService(log *logger.Logger, jwtSecretKey string) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{log: serviceLog, jwtSecretKey: jwtSecretKey}
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("%w: missing token", apperr.ErrNotAuthenticated)
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", apperr.ErrNotAuthenticated, err)
	}
	claims, ok := parsedToken.Claims.(*identityClaims)
	if !ok || !parsedToken.Valid || claims.Subject == "" {
		return ctx, fmt.Errorf("%w: invalid or expired token", apperr.ErrNotAuthenticated)
	}
	rd := &requestdata.RequestData{
		ExternalID: claims.Subject,
		Name:       claims.Name,
		Email:      claims.Email,
		AvatarURL:  claims.AvatarURL,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

// resolveActor maps the request identity onto a user row. Every mutation
// goes through here: no identity is ErrNotAuthenticated, an identity with
// no user record is ErrUserNotFound.
func resolveActor(ctx context.Context, tx *gorm.DB, userRepo repos.UserRepo) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.ExternalID == "" {
		return nil, apperr.ErrNotAuthenticated
	}
	user, err := userRepo.GetByExternalID(ctx, tx, rd.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("resolving acting user: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}
	return user, nil
}
