package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/coded/database"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
)

func TestDashboardAnonymous(t *testing.T) {
	ts := newTestServices(t)
	dash := NewDashboardService(ts.db, logger.Nop())
	ctx := context.Background()

	stats, err := dash.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if *stats != AnonymousDashboard || stats.Level != 1 {
		t.Fatalf("anonymous stats = %+v", stats)
	}
	games, err := dash.GetRecentGames(ctx)
	if err != nil || games == nil || len(games) != 0 {
		t.Fatalf("anonymous games: %v, %v", games, err)
	}
}

func TestDashboardForUser(t *testing.T) {
	ts := newTestServices(t)
	dash := NewDashboardService(ts.db, logger.Nop())
	u := createUser(t, ts.db, "ada")
	ctx := as(u)

	_, lessons := createModule(t, ts.db, "Basics", 1)
	createModule(t, ts.db, "Loops", 2)
	if _, err := ts.progress.MarkLessonCompleted(ctx, lessons[0].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := ts.games.SubmitScore(ctx, gameByName(t, ts.db, database.GameSyntaxQuiz).ID, 20); err != nil {
		t.Fatalf("submit: %v", err)
	}
	ts.db.Model(&models.User{}).Where("id = ?", u.ID).Update("login_streak", 4)

	stats, err := dash.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	// lesson 50 + module 200 + FIRST_LESSON 50 + FIRST_MODULE 300 + score 2 + FIRST_GAME 50
	if stats.XPPoints != 652 || stats.Level != 1 {
		t.Fatalf("xp/level = %d/%d", stats.XPPoints, stats.Level)
	}
	if stats.ProgressPercentage != 50 || stats.LoginStreak != 4 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.AchievementCount != 3 || stats.NewAchievements != 3 {
		t.Fatalf("achievement counts = %d/%d", stats.AchievementCount, stats.NewAchievements)
	}

	dash.now = func() time.Time { return time.Now().UTC().Add(31 * 24 * time.Hour) }
	stats, err = dash.GetDashboardStats(ctx)
	if err != nil || stats.NewAchievements != 0 {
		t.Fatalf("new achievements outside the window: %+v, %v", stats, err)
	}
	dash.now = func() time.Time { return time.Now().UTC() }

	progress, err := dash.GetLearningProgress(ctx)
	if err != nil || len(progress) != 1 || progress[0].Name != "python" || progress[0].Progress != 100 {
		t.Fatalf("learning progress: %+v, %v", progress, err)
	}
	recent, err := dash.GetRecentAchievements(ctx)
	if err != nil || len(recent) != 3 || recent[0].Date != "Just now" {
		t.Fatalf("recent achievements: %+v, %v", recent, err)
	}
	games, err := dash.GetRecentGames(ctx)
	if err != nil || len(games) != 1 || games[0].Name != database.GameSyntaxQuiz || games[0].Score != 20 {
		t.Fatalf("recent games: %+v, %v", games, err)
	}
}

func TestDashboardSavedProjects(t *testing.T) {
	ts := newTestServices(t)
	dash := NewDashboardService(ts.db, logger.Nop())
	projects := NewProjectService(ts.db, logger.Nop())
	u := createUser(t, ts.db, "ada")
	ctx := as(u)

	for _, name := range []string{"one", "two", "three", "four", "five"} {
		if _, err := projects.CreateProject(ctx, CreateProjectInput{Name: name, Language: "go", CodeContent: "package main"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	saved, err := dash.GetSavedProjects(ctx)
	if err != nil || len(saved) != dashboardListSize {
		t.Fatalf("saved projects: %d, %v", len(saved), err)
	}
	if saved[0].Status != models.ProjectStatusDraft {
		t.Fatalf("saved[0] = %+v", saved[0])
	}
}
