package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelcraft/agency-api/internal/config"
	"github.com/pixelcraft/agency-api/internal/repository"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) (*Services, *repository.Repositories) {
	t.Helper()
	repos := repository.NewMemoryRepositories()
	svcs, err := NewServices(&ServiceDeps{
		Config: &config.Config{
			JWTSecret:  "test-secret",
			JWTExpiry:  time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
		Repos: repos,
		Now:   func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svcs, repos
}

func ptr[T any](v T) *T { return &v }

var testCtx = context.Background()
