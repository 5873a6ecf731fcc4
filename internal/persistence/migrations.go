package persistence

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migration actions understood by RunMigration.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateDrop    = "drop"
	MigrateVersion = "version"
)

// RunMigrations applies all pending migrations found in dir.
func RunMigrations(dir, dsn string, logger *zap.Logger) error {
	return RunMigration(MigrateUp, dir, dsn, logger)
}

// RunMigration executes a single golang-migrate action against dsn.
func RunMigration(action, dir, dsn string, logger *zap.Logger) error {
	sourceURL, err := fileSourceURL(dir)
	if err != nil {
		return err
	}

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case MigrateUp:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("apply migrations: %w", err)
		}
	case MigrateDown:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("revert migrations: %w", err)
		}
	case MigrateDrop:
		if err := m.Drop(); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
	case MigrateVersion:
	default:
		return fmt.Errorf("unsupported migration action %q", action)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("no migration applied", zap.String("action", action))
	case err != nil:
		return fmt.Errorf("read migration version: %w", err)
	default:
		logger.Info("migrations applied",
			zap.String("action", action),
			zap.Uint("version", version),
			zap.Bool("dirty", dirty))
	}
	return nil
}

func fileSourceURL(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	return "file://" + filepath.ToSlash(absDir), nil
}
