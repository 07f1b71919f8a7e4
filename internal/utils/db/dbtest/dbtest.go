// Package dbtest opens throwaway SQLite databases for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"gorm.io/gorm"
)

// Open creates a fresh SQLite file under t.TempDir and migrates models.
func Open(t testing.TB, models ...interface{}) *gorm.DB {
	t.Helper()

	database, err := db.ConnectSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(models) > 0 {
		if err := database.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return database
}
