package database

import (
	"testing"

	"github.com/anjiri1684/coded/models"
	"gorm.io/driver/sqlite"
	gormLogger "gorm.io/gorm/logger"
)

func TestMigrateAndSeedIsRepeatable(t *testing.T) {
	db, err := Open(sqlite.Open("file::memory:"), gormLogger.Default.LogMode(gormLogger.Silent))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := SeedCatalog(db); err != nil {
			t.Fatalf("SeedCatalog #%d: %v", i, err)
		}
	}

	var games, achievements int64
	db.Model(&models.Game{}).Count(&games)
	db.Model(&models.Achievement{}).Count(&achievements)
	if games != int64(len(Games)) || achievements != int64(len(Achievements)) {
		t.Fatalf("got %d games and %d achievements", games, achievements)
	}
}
