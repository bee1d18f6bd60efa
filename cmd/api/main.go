// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pixelcraft/agency-api/internal/api"
	"github.com/pixelcraft/agency-api/internal/config"
	"github.com/pixelcraft/agency-api/internal/cron"
	"github.com/pixelcraft/agency-api/internal/db"
	"github.com/pixelcraft/agency-api/internal/logger"
	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/seed"
	"github.com/pixelcraft/agency-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ============================================
	// Load configuration
	// ============================================
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============================================
	// Initialize Storage
	// ============================================
	var repos *repository.Repositories
	switch cfg.DatabaseDriver {
	case "postgres":
		log.Info("running database migrations", zap.String("path", cfg.MigrationsPath))
		if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		pg, err := db.NewPostgresDB(ctx, cfg.DatabaseURL, db.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		}, log)
		if err != nil {
			return err
		}
		defer pg.Close()
		repos = repository.NewRepositories(pg.Pool)

	case "mongo":
		mdb, err := db.NewMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return err
		}
		defer mdb.Close(context.Background())
		repos, err = repository.NewMongoRepositories(ctx, mdb.Database)
		if err != nil {
			return err
		}

	case "memory":
		log.Warn("using in-memory storage; data is lost on restart")
		repos = repository.NewMemoryRepositories()

	default:
		return fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
	log.Info("repositories initialized", zap.String("driver", cfg.DatabaseDriver))

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	deps := &service.ServiceDeps{
		Config: cfg,
		Repos:  repos,
		Logger: log,
	}
	routerDeps := &api.RouterDeps{
		Config:   cfg,
		Logger:   log,
		Database: repos.Health,
	}
	if cfg.RedisURL != "" {
		redisDB, err := db.NewRedisDB(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Warn("failed to connect to redis, continuing without cache", zap.Error(err))
		} else {
			defer redisDB.Close()
			deps.Cache = redisDB
			deps.Tokens = redisDB
			routerDeps.Redis = redisDB.Client
		}
	}

	// ============================================
	// Initialize Services
	// ============================================
	services, err := service.NewServices(deps)
	if err != nil {
		return err
	}
	routerDeps.Services = services

	if _, err := seed.EnsureAdmin(ctx, repos.UserRepo, services.Auth, seed.AdminAccount{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, log); err != nil {
		return err
	}

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	scheduler := cron.NewScheduler(services.Contact, log)
	if err := scheduler.Start(cfg.FollowUpSweepSchedule); err != nil {
		return fmt.Errorf("invalid follow-up schedule: %w", err)
	}
	defer scheduler.Stop()

	// ============================================
	// Create Router and Server
	// ============================================
	router, err := api.NewRouter(routerDeps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
