package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcraft/agency-api/internal/apperror"
	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/types"
)

func TestUpdateProfile(t *testing.T) {
	svcs, _ := newTestServices(t)
	jane, _, err := svcs.Auth.Register(testCtx, "Jane Doe", "jane@example.com", "Secret123")
	require.NoError(t, err)
	_, _, err = svcs.Auth.Register(testCtx, "John Doe", "john@example.com", "Secret123")
	require.NoError(t, err)

	_, err = svcs.User.UpdateProfile(testCtx, jane.ID, nil, ptr("john@example.com"), nil)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	updated, err := svcs.User.UpdateProfile(testCtx, jane.ID, ptr("Jane Smith"), ptr("jane.smith@example.com"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", updated.Name)
	assert.Equal(t, "jane.smith@example.com", updated.Email)

	// the password hash survives a profile update
	_, _, err = svcs.Auth.Login(testCtx, "jane.smith@example.com", "Secret123")
	assert.NoError(t, err)
}

func TestAdminUpdateAndDelete(t *testing.T) {
	svcs, _ := newTestServices(t)
	user, _, err := svcs.Auth.Register(testCtx, "Jane Doe", "jane@example.com", "Secret123")
	require.NoError(t, err)

	updated, err := svcs.User.AdminUpdate(testCtx, user.ID, &models.AdminUpdateUserRequest{
		Role:            ptr(types.RoleAdmin),
		IsEmailVerified: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, updated.Role)
	assert.True(t, updated.IsEmailVerified)
	assert.Equal(t, "Jane Doe", updated.Name)

	require.NoError(t, svcs.User.Delete(testCtx, user.ID))
	_, err = svcs.User.GetByID(testCtx, user.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListUsers(t *testing.T) {
	svcs, _ := newTestServices(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, _, err := svcs.Auth.Register(testCtx, "Some User", email, "Secret123")
		require.NoError(t, err)
	}

	limit := 2
	users, pagination, err := svcs.User.List(testCtx, &models.UserListQuery{Limit: &limit, Sort: "email"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[0].Email)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 2, Total: 3, Pages: 2}, pagination)
}
