package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/pixelcraft/agency-api/internal/db"
	"github.com/pixelcraft/agency-api/internal/repository"
)

// TestPostgresRepositories runs the shared contract against a throwaway
// PostgreSQL container with the real migrations applied.
func TestPostgresRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("agency"),
		tcpostgres.WithUsername("agency"),
		tcpostgres.WithPassword("agency"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	log := zap.NewNop()
	require.NoError(t, db.RunMigrations(dsn, "../db/migrations", log))

	version, dirty, err := db.MigrationVersion(dsn, "../db/migrations")
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(3), version)

	pg, err := db.NewPostgresDB(ctx, dsn, db.PoolOptions{MaxConns: 4}, log)
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	runRepositoryContract(t, func(t *testing.T) *repository.Repositories {
		_, err := pg.Pool.Exec(context.Background(), `TRUNCATE contacts, projects, users CASCADE`)
		require.NoError(t, err)
		return repository.NewRepositories(pg.Pool)
	})
}
