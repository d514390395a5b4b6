//go:build container

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/config"
	"restaurant-admin/internal/connections/database"
)

func init() { extraStores["postgres"] = postgresStore }

// postgresStore starts a throwaway Postgres and returns a migrated
// repository on top of it.
func postgresStore(t *testing.T) RecordRepository {
	t.Helper()
	ctx := context.Background()

	pg, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "restaurant",
				"POSTGRES_PASSWORD": "restaurant",
				"POSTGRES_DB":       "restaurant",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := database.Open(ctx, config.DatabaseConfig{
		Driver:   "postgres",
		Host:     host,
		Port:     port.Int(),
		User:     "restaurant",
		Password: "restaurant",
		Database: "restaurant",
		SSLMode:  "disable",
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db).Records
}
