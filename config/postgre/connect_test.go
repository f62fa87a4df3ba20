package postgre

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectAndMigrate(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, dsn))
	// Re-running is a no-op.
	require.NoError(t, Migrate(ctx, dsn))

	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	var exists bool
	err = pool.QueryRow(ctx, `SELECT to_regclass('public.webhook_deliveries') IS NOT NULL`).Scan(&exists)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestConnect_BadDSN(t *testing.T) {
	_, err := Connect(context.Background(), "://not a dsn")
	require.Error(t, err)
}
