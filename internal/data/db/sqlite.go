package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

// OpenSQLite opens a local SQLite database. path may be a file path or a
// "file:...?mode=memory" URI.
func OpenSQLite(logg *logger.Logger, path string) (*gorm.DB, error) {
	cfg := gormConfig()
	if logg != nil {
		logg.With("service", "SQLite").Info("opening", "path", path)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	return db, nil
}

// OpenSQLiteQuiet is OpenSQLite with gorm's own logging silenced.
func OpenSQLiteQuiet(path string) (*gorm.DB, error) {
	cfg := gormConfig()
	cfg.Logger = gormLogger.Discard
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	return db, nil
}
