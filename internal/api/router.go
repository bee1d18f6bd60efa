package api

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pixelcraft/agency-api/internal/api/handlers"
	"github.com/pixelcraft/agency-api/internal/api/middleware"
	"github.com/pixelcraft/agency-api/internal/config"
	"github.com/pixelcraft/agency-api/internal/service"
	"github.com/pixelcraft/agency-api/internal/types"
	"github.com/pixelcraft/agency-api/internal/validation"
)

// RouterDeps holds what the HTTP surface needs.
type RouterDeps struct {
	Config   *config.Config
	Services *service.Services
	Logger   *zap.Logger
	// Database is pinged by the health check.
	Database handlers.Pinger
	// Redis is optional. When set it backs the rate limiters and is reported
	// by the health check.
	Redis *redis.Client
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func (d *RouterDeps) limiter(prefix, rate, message string) (gin.HandlerFunc, error) {
	store, err := middleware.NewLimiterStore(d.Redis, prefix)
	if err != nil {
		return nil, fmt.Errorf("rate limit store %s: %w", prefix, err)
	}
	mw, err := middleware.RateLimit(store, rate, message, d.Logger)
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", prefix, err)
	}
	return mw, nil
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(deps *RouterDeps) (*gin.Engine, error) {
	cfg := deps.Config
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	validation.Install()

	apiLimit, err := deps.limiter("ratelimit:api", cfg.RateLimit, "Too many requests from this IP, please try again later.")
	if err != nil {
		return nil, err
	}
	authLimit, err := deps.limiter("ratelimit:auth", cfg.AuthRateLimit, "Too many authentication attempts, please try again later.")
	if err != nil {
		return nil, err
	}
	contactLimit, err := deps.limiter("ratelimit:contact", cfg.ContactRateLimit, "Too many contact form submissions, please try again later.")
	if err != nil {
		return nil, err
	}

	var cachePinger handlers.Pinger
	if deps.Redis != nil {
		cachePinger = redisPinger{client: deps.Redis}
	}
	h := handlers.NewHandlers(deps.Services, handlers.NewHealthHandler(cfg.Environment, deps.Database, cachePinger))

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger),
		cors.New(corsConfig(cfg.CORSOrigins)),
		middleware.ErrorHandler(deps.Logger, cfg.IsProduction()),
		middleware.Recovery(deps.Logger),
	)
	r.NoRoute(middleware.NotFound)

	auth := middleware.AuthMiddleware(deps.Services.Auth)
	optionalAuth := middleware.OptionalAuthMiddleware(deps.Services.Auth)
	adminOnly := middleware.RequireRole(types.RoleAdmin)

	api := r.Group("/api")
	api.Use(apiLimit)
	{
		api.GET("/health", h.Health.Check)

		// ============================================
		// User routes
		// ============================================
		users := api.Group("/users")
		{
			users.POST("/register", authLimit, h.Auth.Register)
			users.POST("/login", authLimit, h.Auth.Login)

			users.GET("/me", auth, h.User.GetCurrentUser)
			users.PUT("/profile", auth, h.User.UpdateProfile)
			users.PUT("/updatepassword", auth, h.Auth.UpdatePassword)
			users.DELETE("/account", auth, h.User.DeleteAccount)
			users.POST("/logout", auth, h.Auth.Logout)
			users.GET("/logout", auth, h.Auth.Logout)

			users.GET("", auth, adminOnly, h.User.List)
			users.GET("/:id", auth, adminOnly, h.User.Get)
			users.PUT("/:id", auth, adminOnly, h.User.Update)
			users.DELETE("/:id", auth, adminOnly, h.User.Delete)
		}

		// ============================================
		// Project routes
		// ============================================
		projects := api.Group("/projects")
		{
			projects.GET("", optionalAuth, h.Project.List)
			projects.GET("/featured", h.Project.Featured)
			projects.GET("/category/:category", h.Project.ByCategory)
			projects.GET("/technology/:tech", h.Project.ByTechnology)
			projects.GET("/admin/stats", auth, adminOnly, h.Project.Stats)
			projects.GET("/:id", optionalAuth, h.Project.Get)
			projects.POST("/:id/like", h.Project.Like)

			projects.POST("", auth, adminOnly, h.Project.Create)
			projects.PUT("/:id", auth, adminOnly, h.Project.Update)
			projects.PUT("/:id/publish", auth, adminOnly, h.Project.Publish)
			projects.PUT("/:id/archive", auth, adminOnly, h.Project.Archive)
			projects.DELETE("/:id", auth, adminOnly, h.Project.Delete)
		}

		// ============================================
		// Contact routes
		// ============================================
		api.POST("/contact", contactLimit, h.Contact.Submit)

		contacts := api.Group("/contact")
		contacts.Use(auth, adminOnly)
		{
			contacts.GET("", h.Contact.List)
			contacts.GET("/stats", h.Contact.Stats)
			contacts.GET("/:id", h.Contact.Get)
			contacts.PUT("/:id/status", h.Contact.UpdateStatus)
			contacts.POST("/:id/notes", h.Contact.AddNote)
			contacts.POST("/:id/followup", h.Contact.ScheduleFollowUp)
			contacts.PUT("/:id/followup/complete", h.Contact.CompleteFollowUp)
			contacts.DELETE("/:id", h.Contact.Delete)
		}
	}

	return r, nil
}
