package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/cms-api/migrations"
)

// NewMigrator builds a migrator over the embedded schema using an open connection.
func NewMigrator(db *sqlx.DB, logger *zap.Logger) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("init migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	m.Log = &migrateLogger{logger: logger}
	return m, nil
}

// Migrate applies every pending up migration.
func Migrate(db *sqlx.DB, logger *zap.Logger) error {
	m, err := NewMigrator(db, logger)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info("schema up to date", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

type migrateLogger struct {
	logger *zap.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Sugar().Debugf(format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
