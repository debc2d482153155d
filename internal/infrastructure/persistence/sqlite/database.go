// Package sqlite provides SQLite database setup for development and tests
package sqlite

import (
	"fmt"

	persistence "github.com/fitchef/fitchef/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// SetupDatabase opens a SQLite database and migrates the schema.
// Pass ":memory:" for an in-memory database.
func SetupDatabase(path string, logLevel gormLogger.LogLevel) (*gorm.DB, error) {
	dsn := path
	if path == ":memory:" {
		// Shared cache keeps all connections of the pool on one database.
		dsn = "file::memory:?cache=shared&_busy_timeout=5000"
	} else {
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&persistence.AccountModel{},
		&persistence.DailyUsageModel{},
		&persistence.SavedRecipeModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
