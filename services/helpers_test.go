package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/anjiri1684/coded/database"
	"github.com/anjiri1684/coded/identity"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), gormLogger.Default.LogMode(gormLogger.Silent))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedCatalog(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func createModule(t *testing.T, db *gorm.DB, title string, lessons int) (*models.LearningModule, []models.Lesson) {
	t.Helper()
	m := &models.LearningModule{Title: title, Language: "python"}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("create module: %v", err)
	}
	out := make([]models.Lesson, 0, lessons)
	for i := 0; i < lessons; i++ {
		l := models.Lesson{ModuleID: m.ID, Title: fmt.Sprintf("%s %d", title, i+1), OrderIndex: i}
		if err := db.Create(&l).Error; err != nil {
			t.Fatalf("create lesson: %v", err)
		}
		out = append(out, l)
	}
	return m, out
}

func gameByName(t *testing.T, db *gorm.DB, name string) models.Game {
	t.Helper()
	var g models.Game
	if err := db.Where("name = ?", name).First(&g).Error; err != nil {
		t.Fatalf("game %q: %v", name, err)
	}
	return g
}

func xpOf(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	var u models.User
	if err := db.First(&u, userID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	return u.XPPoints
}

func as(u *models.User) context.Context {
	return identity.WithUser(context.Background(), u)
}

func codesOf(achievements []models.Achievement) map[models.AchievementCode]bool {
	out := map[models.AchievementCode]bool{}
	for _, a := range achievements {
		out[a.Code] = true
	}
	return out
}

type recordingNotifier struct {
	mu     sync.Mutex
	events map[uint][]Event
}

func (n *recordingNotifier) Notify(userID uint, e Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.events == nil {
		n.events = map[uint][]Event{}
	}
	n.events[userID] = append(n.events[userID], e)
}

func (n *recordingNotifier) count(userID uint) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events[userID])
}

type testServices struct {
	db       *gorm.DB
	notifier *recordingNotifier
	rewards  *RewardService
	progress *ProgressService
	games    *GameService
}

func newTestServices(t *testing.T) *testServices {
	db := newTestDB(t)
	n := &recordingNotifier{}
	log := logger.Nop()
	rewards := NewRewardService(db, log, n)
	return &testServices{
		db:       db,
		notifier: n,
		rewards:  rewards,
		progress: NewProgressService(db, log, rewards),
		games:    NewGameService(db, log, rewards),
	}
}
