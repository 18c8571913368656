package database

import (
	"fmt"
	"time"

	config "github.com/anjiri1684/coded/configs"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Connect opens the configured database. Postgres is the production store;
// sqlite serves local development.
func Connect(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	db, err := Open(dialector, gormLogger.Default.LogMode(gormLogger.Warn))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	if cfg.DBDriver == "sqlite" {
		// sqlite allows a single writer; serialise through one connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("database connected", "driver", cfg.DBDriver)
	return db, nil
}

func Open(dialector gorm.Dialector, lg gormLogger.Interface) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   lg,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.LearningModule{},
		&models.Lesson{},
		&models.LearningContent{},
		&models.UserLessonProgress{},
		&models.UserProgress{},
		&models.Game{},
		&models.GameScore{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Project{},
		&models.Certificate{},
	)
}
