package database

import (
	"fmt"
	"path/filepath"

	"github.com/calckorgo82/stockwebapp/config"
	"github.com/calckorgo82/stockwebapp/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the users and portfolio tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Transaction{}); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}
	return nil
}

// Open connects with cfg and migrates the schema.
func Open(cfg config.Database) (*gorm.DB, error) {
	db, err := config.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		Close(db)
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens a migrated sqlite database file inside dir.
func OpenSQLite(dir string) (*gorm.DB, error) {
	return Open(config.Database{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(dir, "finance.db"),
		LogLevel: "silent",
	})
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
