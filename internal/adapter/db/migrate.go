package db

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Migrate applies every pending migration found under path.
func Migrate(db *sqlx.DB, path string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve migrations path: %w", err)
	}

	driver, err := mysql.WithInstance(db.DB, &mysql.Config{MigrationsTable: "schema_migrations"})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+absPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if version, dirty, err := m.Version(); err == nil {
		logger.Info("current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	} else if !errors.Is(err, migrate.ErrNilVersion) {
		logger.Warn("could not read schema version", zap.Error(err))
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("schema is up to date")
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("migrations applied", zap.Uint("version", version))
	return nil
}
