package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/service"
	"github.com/pixelcraft/agency-api/internal/types"
)

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	auth, err := service.NewAuthService(service.AuthConfig{
		Secret:     "test-secret",
		Expiry:     time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, repos.UserRepo, service.NewMemoryTokenStore())
	require.NoError(t, err)

	account := AdminAccount{Email: "admin@example.com", Password: "Secret123"}

	created, err := EnsureAdmin(ctx, repos.UserRepo, auth, AdminAccount{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, created)

	created, err = EnsureAdmin(ctx, repos.UserRepo, auth, account, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(ctx, repos.UserRepo, auth, account, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, created)

	user, _, err := auth.Login(ctx, "admin@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, user.Role)
	assert.Equal(t, "Administrator", user.Name)

	count, err := repos.UserRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
