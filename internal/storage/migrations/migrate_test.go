package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURL(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "postgres scheme", backend: Postgres, dsn: "postgres://u:p@localhost:5432/ledger?sslmode=disable", want: "pgx5://u:p@localhost:5432/ledger?sslmode=disable"},
		{name: "postgresql scheme", backend: Postgres, dsn: "postgresql://localhost/ledger", want: "pgx5://localhost/ledger"},
		{name: "postgres bad scheme", backend: Postgres, dsn: "mysql://localhost/ledger", wantErr: true},
		{name: "clickhouse", backend: Clickhouse, dsn: "clickhouse://localhost:9000/ledger", want: "clickhouse://localhost:9000/ledger"},
		{name: "clickhouse no database", backend: Clickhouse, dsn: "clickhouse://localhost:9000", wantErr: true},
		{name: "unknown backend", backend: "mysql", dsn: "mysql://localhost/db", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DatabaseURL(tt.backend, tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	for name, fsys := range map[string]fs.FS{"postgres": PostgresFS, "clickhouse": ClickhouseFS} {
		entries, err := fs.ReadDir(fsys, name)
		require.NoError(t, err)

		ups, downs := 0, 0
		for _, e := range entries {
			switch {
			case strings.HasSuffix(e.Name(), ".up.sql"):
				ups++
			case strings.HasSuffix(e.Name(), ".down.sql"):
				downs++
			}
		}
		assert.Positive(t, ups, name)
		assert.Equal(t, ups, downs, name)
	}
}
