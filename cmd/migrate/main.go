// Command migrate applies or rolls back the PostgreSQL schema.
//
//	migrate up
//	migrate down [steps]
//	migrate version
package main

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/pixelcraft/agency-api/internal/config"
	"github.com/pixelcraft/agency-api/internal/db"
	"github.com/pixelcraft/agency-api/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config.MustLoad()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cmd := "up"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "up":
		return db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log)

	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
		}
		return db.RollbackMigrations(cfg.DatabaseURL, cfg.MigrationsPath, steps, log)

	case "version":
		version, dirty, err := db.MigrationVersion(cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil {
			return err
		}
		log.Info("migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil

	default:
		return fmt.Errorf("unknown command %q (want up, down or version)", cmd)
	}
}
