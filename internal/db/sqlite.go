package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/logger"
)

// NewSQLite opens a file-backed (or :memory:) sqlite database and runs the
// migrations. Used for local development and tests; production runs on
// PostgresService.
func NewSQLite(path string, log *logger.Logger) (*gorm.DB, error) {
	if log != nil {
		log.Info("Opening sqlite database", "path", path)
	}
	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := AutoMigrate(gormDB); err != nil {
		return nil, fmt.Errorf("sqlite auto migration failed: %w", err)
	}
	return gormDB, nil
}
