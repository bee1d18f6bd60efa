package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelcraft/agency-api/internal/api/middleware"
	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/service"
)

// ============================================
// Auth Handler
// ============================================

type AuthHandler struct {
	authService service.AuthService
}

// Register - Create an account
// POST /api/users/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusCreated, "User registered successfully", models.AuthResponse{
		User:  models.NewUserResponse(user),
		Token: token,
	})
}

// Login - Exchange credentials for a token
// POST /api/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Login successful", models.AuthResponse{
		User:  models.NewUserResponse(user),
		Token: token,
	})
}

// Logout - Revoke the presented token
// POST /api/users/logout
// GET /api/users/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetClaims(c)); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Logged out successfully", nil)
}

// UpdatePassword - Change the current user's password
// PUT /api/users/updatepassword
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user := middleware.GetUser(c)

	var req models.UpdatePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.UpdatePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// the old token stays valid until it expires; revoke it
	if err := h.authService.Logout(c.Request.Context(), middleware.GetClaims(c)); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Password updated successfully", models.AuthResponse{Token: token})
}

// ============================================
// User Handler
// ============================================

type UserHandler struct {
	userService service.UserService
	authService service.AuthService
}

// GetCurrentUser - Current user's profile
// GET /api/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	respond(c, http.StatusOK, "User retrieved successfully", gin.H{
		"user": models.NewUserResponse(middleware.GetUser(c)),
	})
}

// UpdateProfile - Update name, email or avatar
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	current := middleware.GetUser(c)

	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), current.ID, req.Name, req.Email, req.Avatar)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Profile updated successfully", gin.H{"user": models.NewUserResponse(user)})
}

// DeleteAccount - Delete the current user's account
// DELETE /api/users/account
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	user := middleware.GetUser(c)

	if err := h.userService.Delete(c.Request.Context(), user.ID); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.authService.Logout(c.Request.Context(), middleware.GetClaims(c)); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Account deleted successfully", nil)
}

// List - Paginated user list
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	var q models.UserListQuery
	if !bindQuery(c, &q) {
		return
	}

	users, pagination, err := h.userService.List(c.Request.Context(), &q)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := make([]*models.UserResponse, len(users))
	for i, u := range users {
		response[i] = models.NewUserResponse(u)
	}

	respond(c, http.StatusOK, "Users retrieved successfully", gin.H{
		"users":      response,
		"pagination": pagination,
	})
}

// Get - A single user
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "User retrieved successfully", gin.H{"user": models.NewUserResponse(user)})
}

// Update - Admin update of a user
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req models.AdminUpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.AdminUpdate(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "User updated successfully", gin.H{"user": models.NewUserResponse(user)})
}

// Delete - Admin delete of a user
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "User deleted successfully", nil)
}
