package db

import (
	"context"
	"fmt"

	"github.com/KromaEnergia/teamsheet-api/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Assignments may point at employees or sections that no longer exist, so
// relations are not enforced with FK constraints.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// Open connects to the store selected by cfg.DBDriver.
func Open(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "postgres":
		return ConnectDataBase(ctx, cfg.DBPort, cfg.DBHost, cfg.DBName, cfg.DBSecretID, cfg.DBSSLModeDisable)
	case "sqlite", "":
		return ConnectSQLite(cfg.SQLitePath)
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}

// ConnectDataBase opens Postgres with credentials from env or Secrets Manager.
func ConnectDataBase(ctx context.Context, port uint, host, dbname, secretID string, sslDisabled bool) (*gorm.DB, error) {
	var sslMode string
	if sslDisabled {
		sslMode = " sslmode=disable"
	}
	username, password, err := retrieveCredentials(ctx, secretID)
	if err != nil {
		return nil, fmt.Errorf("db credentials: %w", err)
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s", host, username, password, dbname, port, sslMode)
	database, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return database, nil
}

// ConnectSQLite opens (or creates) a SQLite file with foreign keys enabled.
func ConnectSQLite(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	database, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return database, nil
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
