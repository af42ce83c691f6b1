// Package database opens the blog store and exposes it through a table-level adapter.
package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blogql/internal/config"
	"blogql/internal/middleware"
	"blogql/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// dialector picks the GORM driver for cfg.DBDriver.
func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite, "":
		return sqlite.Open(sqliteDSN(cfg.DBPath)), nil
	case config.DriverPostgres:
		sslMode := cfg.DBSSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			sslMode,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// sqliteDSN turns on foreign key enforcement so Posts.userID must name a user.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func isInMemory(cfg *config.Config) bool {
	return (cfg.DBDriver == config.DriverSQLite || cfg.DBDriver == "") && strings.Contains(cfg.DBPath, ":memory:")
}

// Connect opens and pings the configured store. Any failure is a StoreUnavailable error.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:                 NewGormLogger(),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, models.NewStoreUnavailableError(fmt.Errorf("failed to connect to database: %w", err))
	}

	if err := configurePool(db, cfg); err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, models.NewStoreUnavailableError(fmt.Errorf("failed to ping database: %w", err))
	}

	middleware.Logger.Info("Database connected successfully",
		slog.String("driver", db.Dialector.Name()),
	)
	return db, nil
}

// configurePool sizes the connection pool. An in-memory SQLite database lives in
// a single connection, so the pool is pinned to one.
func configurePool(db *gorm.DB, cfg *config.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql.DB: %w", err)
	}

	if isInMemory(cfg) {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		return nil
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
