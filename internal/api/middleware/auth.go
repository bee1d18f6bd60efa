package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pixelcraft/agency-api/internal/apperror"
	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/service"
)

const (
	userKey   = "user"
	claimsKey = "claims"
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// AuthMiddleware validates the bearer token, loads the user and stores both
// in the gin context. Failures abort with 401.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, err := authService.VerifyAndLoad(c.Request.Context(), bearerToken(c))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		user, claims, err := authService.VerifyAndLoad(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(userKey, user)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware. Users outside roles get 403.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil {
			_ = c.Error(apperror.Unauthenticated("Not authorized, no token"))
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		_ = c.Error(apperror.Forbidden("User role " + user.Role + " is not authorized to access this route"))
		c.Abort()
	}
}

// GetUser returns the authenticated user, or nil.
func GetUser(c *gin.Context) *repository.User {
	v, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, _ := v.(*repository.User)
	return user
}

// GetClaims returns the verified token claims, or nil.
func GetClaims(c *gin.Context) *service.Claims {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*service.Claims)
	return claims
}

// HasRole reports whether the request is authenticated with the given role.
func HasRole(c *gin.Context, role string) bool {
	user := GetUser(c)
	return user != nil && user.Role == role
}
