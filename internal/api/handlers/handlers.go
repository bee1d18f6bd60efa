package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/service"
	"github.com/pixelcraft/agency-api/internal/validation"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Project *ProjectHandler
	Contact *ContactHandler
	Health  *HealthHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services, health *HealthHandler) *Handlers {
	return &Handlers{
		Auth:    &AuthHandler{authService: services.Auth},
		User:    &UserHandler{userService: services.User, authService: services.Auth},
		Project: NewProjectHandler(services.Project),
		Contact: NewContactHandler(services.Contact),
		Health:  health,
	}
}

// ============================================
// Helper Functions
// ============================================

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, models.Success(message, data))
}

// bindJSON binds and validates the request body. On failure the error is
// attached to the context and false is returned.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(validation.Translate(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		_ = c.Error(validation.Translate(err))
		return false
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// requestMetadata captures where a contact submission came from. UTM
// parameters are read from the query string, falling back to the body.
func requestMetadata(c *gin.Context, req *models.ContactRequest) repository.ContactMetadata {
	return repository.ContactMetadata{
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Referrer:    c.Request.Referer(),
		UTMSource:   firstNonEmpty(c.Query("utm_source"), req.UTMSource),
		UTMMedium:   firstNonEmpty(c.Query("utm_medium"), req.UTMMedium),
		UTMCampaign: firstNonEmpty(c.Query("utm_campaign"), req.UTMCampaign),
	}
}
