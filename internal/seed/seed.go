// internal/seed/seed.go
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/service"
	"github.com/pixelcraft/agency-api/internal/types"
)

// AdminAccount describes the bootstrap administrator.
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin creates the bootstrap admin when email and password are set
// and no user with that email exists yet. An existing account is left as is.
// It reports whether a user was created.
func EnsureAdmin(ctx context.Context, userRepo repository.UserRepository, auth service.AuthService, account AdminAccount, log *zap.Logger) (bool, error) {
	if account.Email == "" || account.Password == "" {
		return false, nil
	}
	if account.Name == "" {
		account.Name = "Administrator"
	}

	existing, err := userRepo.FindByEmail(ctx, account.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}
	if existing != nil {
		log.Debug("bootstrap admin already exists", zap.String("email", account.Email))
		return false, nil
	}

	hash, err := auth.HashPassword(account.Password)
	if err != nil {
		return false, err
	}

	admin := &repository.User{
		Name:            account.Name,
		Email:           account.Email,
		Password:        hash,
		Role:            types.RoleAdmin,
		IsEmailVerified: true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info("bootstrap admin created", zap.String("email", admin.Email), zap.String("id", admin.ID))
	return true, nil
}
