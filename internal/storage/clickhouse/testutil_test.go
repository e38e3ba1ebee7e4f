package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcClickhouse "github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"go.uber.org/zap"

	"sui-refund-ledger/internal/storage/migrations"
)

const clickhouseImage = "clickhouse/clickhouse-server:24.8-alpine"

// setupTestDB creates a ClickHouse container, applies migrations and
// returns a connection. Returns a cleanup function that must be called when done.
func setupTestDB(t *testing.T) (*Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

	container, err := tcClickhouse.Run(ctx,
		clickhouseImage,
		tcClickhouse.WithUsername("default"),
		tcClickhouse.WithPassword(""),
		tcClickhouse.WithDatabase("ledger"),
	)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	require.NoError(t, migrations.Up(migrations.Clickhouse, dsn, zap.NewNop()))

	conn, err := NewConn(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		_ = conn.Close()
		_ = container.Terminate(context.Background())
		cancel()
	}

	return conn, cleanup
}
