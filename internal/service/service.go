package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pixelcraft/agency-api/internal/apperror"
	"github.com/pixelcraft/agency-api/internal/config"
	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/repository"
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth    AuthService
	User    UserService
	Project ProjectService
	Contact ContactService
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config *config.Config
	Repos  *repository.Repositories
	Tokens TokenStore
	// Cache is optional; nil disables the public project cache.
	Cache  Cache
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewServices(deps *ServiceDeps) (*Services, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}

	auth, err := NewAuthService(AuthConfig{
		Secret:     deps.Config.JWTSecret,
		Expiry:     deps.Config.JWTExpiry,
		BcryptCost: deps.Config.BcryptCost,
	}, deps.Repos.UserRepo, tokens)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return &Services{
		Auth:    auth,
		User:    NewUserService(deps.Repos.UserRepo),
		Project: NewProjectService(deps.Repos.ProjectRepo, deps.Cache, log, now),
		Contact: NewContactService(deps.Repos.ContactRepo, now),
	}, nil
}

// ============================================
// Cache
// ============================================

// Cache is the subset of the Redis client the services use.
type Cache interface {
	SetCache(ctx context.Context, key string, value any, expiration time.Duration) error
	GetCache(ctx context.Context, key string, dest any) error
	InvalidateCache(ctx context.Context, pattern string) error
}

// ============================================
// Helpers
// ============================================

// notFound turns a missing or malformed id into a NotFound error.
func notFound(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
		return apperror.Wrap(err, apperror.KindNotFound, message)
	}
	return err
}

// pageFor resolves pagination defaults and validates the sort expression.
func pageFor(page, limit *int, defaultLimit int, sort string, allowed []string) (repository.Page, int, int, error) {
	p, l, skip := models.Window(page, limit, defaultLimit)
	fields, bad := repository.ParseSort(sort, allowed)
	if bad != "" {
		return repository.Page{}, 0, 0, apperror.Validation(apperror.FieldError{
			Field:   "sort",
			Message: fmt.Sprintf("Cannot sort by %q", bad),
			Value:   sort,
		})
	}
	return repository.Page{Skip: skip, Limit: l, Sort: fields}, p, l, nil
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
