//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgresStoreContract(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("nexus"),
		postgrescontainer.WithUsername("nexus"),
		postgrescontainer.WithPassword("nexus"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	checkStoreContract(t, s)

	// Opening again against the existing table must be a no-op migration.
	again, err := NewPostgresStore(ctx, connStr)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}
