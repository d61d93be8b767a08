package pkg

import (
	"fmt"
	"strings"

	"github.com/learnpath/datasim/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase opens the target database. A postgres URL selects the
// postgres driver; anything else is treated as a sqlite file path, which
// lets demo runs work without a database server.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Warn
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(cfg.DatabaseURL, "postgres://") ||
		strings.HasPrefix(cfg.DatabaseURL, "postgresql://") ||
		strings.Contains(cfg.DatabaseURL, "host=") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}
