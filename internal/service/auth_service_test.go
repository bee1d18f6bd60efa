package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelcraft/agency-api/internal/apperror"
	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/types"
)

func TestRegisterAndLogin(t *testing.T) {
	svcs, _ := newTestServices(t)

	user, token, err := svcs.Auth.Register(testCtx, "Jane Doe", "jane@example.com", "Secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, types.RoleUser, user.Role)
	assert.NotEqual(t, "Secret123", user.Password)

	_, _, err = svcs.Auth.Register(testCtx, "Jane Again", "jane@example.com", "Secret123")
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	loggedIn, token, err := svcs.Auth.Login(testCtx, "jane@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	resolved, claims, err := svcs.Auth.VerifyAndLoad(testCtx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svcs, _ := newTestServices(t)
	_, _, err := svcs.Auth.Register(testCtx, "Jane Doe", "jane@example.com", "Secret123")
	require.NoError(t, err)

	_, _, wrongPassword := svcs.Auth.Login(testCtx, "jane@example.com", "Wrong123")
	_, _, noSuchUser := svcs.Auth.Login(testCtx, "ghost@example.com", "Secret123")

	wp, ok := apperror.As(wrongPassword)
	require.True(t, ok)
	nu, ok := apperror.As(noSuchUser)
	require.True(t, ok)
	assert.Equal(t, apperror.KindInvalidCredentials, wp.Kind)
	assert.Equal(t, wp.Kind, nu.Kind)
	assert.Equal(t, wp.Message, nu.Message)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	svcs, _ := newTestServices(t)
	user, _, err := svcs.Auth.Register(testCtx, "Jane Doe", "jane@example.com", "Secret123")
	require.NoError(t, err)

	_, _, err = svcs.Auth.VerifyAndLoad(testCtx, "")
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))

	_, _, err = svcs.Auth.VerifyAndLoad(testCtx, "not.a.token")
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        "x",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, _, err = svcs.Auth.VerifyAndLoad(testCtx, signed)
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        "y",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	signed, err = expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, _, err = svcs.Auth.VerifyAndLoad(testCtx, signed)
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "Token expired", ae.Message)
}

func TestVerifyRejectsDeletedUser(t *testing.T) {
	svcs, _ := newTestServices(t)
	user, token, err := svcs.Auth.Register(testCtx, "Jane Doe", "jane@example.com", "Secret123")
	require.NoError(t, err)
	require.NoError(t, svcs.User.Delete(testCtx, user.ID))

	_, _, err = svcs.Auth.VerifyAndLoad(testCtx, token)
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
}

func TestLogoutRevokesToken(t *testing.T) {
	svcs, _ := newTestServices(t)
	_, token, err := svcs.Auth.Register(testCtx, "Jane Doe", "jane@example.com", "Secret123")
	require.NoError(t, err)

	_, claims, err := svcs.Auth.VerifyAndLoad(testCtx, token)
	require.NoError(t, err)
	require.NoError(t, svcs.Auth.Logout(testCtx, claims))

	_, _, err = svcs.Auth.VerifyAndLoad(testCtx, token)
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "Token has been revoked", ae.Message)
}

func TestUpdatePassword(t *testing.T) {
	svcs, _ := newTestServices(t)
	user, _, err := svcs.Auth.Register(testCtx, "Jane Doe", "jane@example.com", "Secret123")
	require.NoError(t, err)

	_, err = svcs.Auth.UpdatePassword(testCtx, user.ID, "Wrong123", "Newpass123")
	assert.True(t, apperror.Is(err, apperror.KindInvalidCredentials))

	token, err := svcs.Auth.UpdatePassword(testCtx, user.ID, "Secret123", "Newpass123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svcs.Auth.Login(testCtx, "jane@example.com", "Secret123")
	assert.Error(t, err)
	_, _, err = svcs.Auth.Login(testCtx, "jane@example.com", "Newpass123")
	assert.NoError(t, err)
}

var errStoreDown = errors.New("connection refused")

type unavailableTokenStore struct{}

func (unavailableTokenStore) RevokeToken(context.Context, string, time.Time) error { return errStoreDown }
func (unavailableTokenStore) IsTokenRevoked(context.Context, string) (bool, error) {
	return false, errStoreDown
}

func TestVerifyFailsClosedWhenRevocationStoreIsDown(t *testing.T) {
	repos := repository.NewMemoryRepositories()
	auth, err := NewAuthService(AuthConfig{
		Secret:     "test-secret",
		Expiry:     time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, repos.UserRepo, unavailableTokenStore{})
	require.NoError(t, err)

	_, token, err := auth.Register(testCtx, "Jane Doe", "jane@example.com", "Secret123")
	require.NoError(t, err)

	user, claims, err := auth.VerifyAndLoad(testCtx, token)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, user)
	assert.Nil(t, claims)
	assert.False(t, apperror.Is(err, apperror.KindUnauthenticated))
}
