// Package migrations applies the embedded schema migrations with golang-migrate.
package migrations

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/clickhouse"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Backend names a database the migrations target.
type Backend string

const (
	Postgres   Backend = "postgres"
	Clickhouse Backend = "clickhouse"
)

// Up applies every pending migration for backend against dsn.
// An up-to-date schema is not an error.
func Up(backend Backend, dsn string, logger *zap.Logger) error {
	m, err := newMigrate(backend, dsn)
	if err != nil {
		return err
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no migrations to apply", zap.String("backend", string(backend)))
			return nil
		}
		return fmt.Errorf("apply %s migrations: %w", backend, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read %s schema version: %w", backend, err)
	}
	logger.Info("migrations applied",
		zap.String("backend", string(backend)),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Down rolls back every applied migration for backend.
func Down(backend Backend, dsn string, logger *zap.Logger) error {
	m, err := newMigrate(backend, dsn)
	if err != nil {
		return err
	}
	defer closeMigrate(m, logger)

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back %s migrations: %w", backend, err)
	}
	logger.Info("migrations rolled back", zap.String("backend", string(backend)))
	return nil
}

func newMigrate(backend Backend, dsn string) (*migrate.Migrate, error) {
	var (
		fsys fs.FS
		dir  string
	)
	switch backend {
	case Postgres:
		fsys, dir = PostgresFS, "postgres"
	case Clickhouse:
		fsys, dir = ClickhouseFS, "clickhouse"
	default:
		return nil, fmt.Errorf("unknown migration backend %q", backend)
	}

	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("open embedded %s migrations: %w", backend, err)
	}

	databaseURL, err := DatabaseURL(backend, dsn)
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("init %s migrate: %w", backend, err)
	}
	return m, nil
}

func closeMigrate(m *migrate.Migrate, logger *zap.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("migration source close error", zap.Error(srcErr))
	}
	if dbErr != nil {
		logger.Warn("migration database close error", zap.Error(dbErr))
	}
}

// DatabaseURL rewrites a connection string into the URL form golang-migrate
// expects: postgres DSNs use the pgx5 scheme, ClickHouse DSNs must name a database.
func DatabaseURL(backend Backend, dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse %s dsn: %w", backend, err)
	}

	switch backend {
	case Postgres:
		switch u.Scheme {
		case "postgres", "postgresql", "pgx5":
			u.Scheme = "pgx5"
		default:
			return "", fmt.Errorf("postgres dsn scheme %q not supported", u.Scheme)
		}
	case Clickhouse:
		if u.Scheme != "clickhouse" {
			return "", fmt.Errorf("clickhouse dsn scheme %q not supported", u.Scheme)
		}
		if strings.TrimPrefix(u.Path, "/") == "" {
			return "", fmt.Errorf("clickhouse dsn missing database")
		}
	default:
		return "", fmt.Errorf("unknown migration backend %q", backend)
	}
	return u.String(), nil
}
