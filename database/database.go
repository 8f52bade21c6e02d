package database

import (
	"fmt"

	"pulse/internal/domain/analytics"
	"pulse/internal/domain/billing"
	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"
	"pulse/internal/domain/users"
	"pulse/internal/infra/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Models lists every persisted domain model, in migration order.
func Models() []any {
	return []any{
		// core
		&users.User{},
		&billing.Subscription{},

		// page + blocks
		&pages.Page{},
		&blocks.Block{},

		// analytics (append-only)
		&analytics.PageView{},
		&analytics.BlockClick{},
	}
}

func InitDB(dsn, gormLogLevel string) error {
	if dsn == "" {
		return fmt.Errorf("DB_URL not set")
	}

	gormLogger, levelErr := newGormLogger(gormLogLevel)
	if levelErr != nil {
		logger.Error("invalid gorm log level, using default", "error", levelErr)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}

	DB = db

	if err := DB.AutoMigrate(Models()...); err != nil {
		logger.Error("failed to auto-migrate database", "error", err)
		return err
	}

	logger.Info("connected and migrated")
	return nil
}
