package services

import (
	"context"
	"sync"
	"testing"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/database"
	"github.com/anjiri1684/coded/models"
)

func TestScoreXP(t *testing.T) {
	for score, want := range map[int]int{0: 0, 9: 0, 10: 1, 1234: 123, -5: 0} {
		if got := ScoreXP(score); got != want {
			t.Fatalf("ScoreXP(%d) = %d, want %d", score, got, want)
		}
	}
}

func TestSubmitScoreGrantsXPAndAchievements(t *testing.T) {
	ts := newTestServices(t)
	u := createUser(t, ts.db, "ada")
	game := gameByName(t, ts.db, database.GameSyntaxQuiz)
	ctx := as(u)

	res, err := ts.games.SubmitScore(ctx, game.ID, 1234)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.XPGranted != 123 {
		t.Fatalf("xp granted = %d, want 123", res.XPGranted)
	}
	codes := codesOf(res.Unlocked)
	if len(codes) != 2 || !codes[models.AchievementFirstGame] || !codes[models.AchievementHighScorer] {
		t.Fatalf("unlocked = %v", res.Unlocked)
	}
	if xp := xpOf(t, ts.db, u.ID); xp != 123+50+150 {
		t.Fatalf("xp = %d, want %d", xp, 123+50+150)
	}
	if n := ts.notifier.count(u.ID); n != 2 {
		t.Fatalf("notifications = %d, want 2", n)
	}

	res, err = ts.games.SubmitScore(ctx, game.ID, 1500)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if len(res.Unlocked) != 0 {
		t.Fatalf("second submit unlocked %v", res.Unlocked)
	}

	var awarded int64
	ts.db.Model(&models.UserAchievement{}).Where("user_id = ?", u.ID).Count(&awarded)
	if awarded != 2 {
		t.Fatalf("user achievements = %d, want 2", awarded)
	}
}

func TestConcurrentFirstPlaysAwardFirstGameOnce(t *testing.T) {
	ts := newTestServices(t)
	u := createUser(t, ts.db, "ada")
	game := gameByName(t, ts.db, database.GameSyntaxQuiz)
	ctx := as(u)

	const plays, score = 8, 100
	var wg sync.WaitGroup
	errs := make(chan error, plays)
	for i := 0; i < plays; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ts.games.SubmitScore(ctx, game.ID, score); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("submit: %v", err)
	}

	var awarded int64
	ts.db.Model(&models.UserAchievement{}).Where("user_id = ?", u.ID).Count(&awarded)
	if awarded != 1 {
		t.Fatalf("user achievements = %d, want 1", awarded)
	}
	if want := plays*ScoreXP(score) + 50; xpOf(t, ts.db, u.ID) != want {
		t.Fatalf("xp = %d, want %d", xpOf(t, ts.db, u.ID), want)
	}
	if n := ts.notifier.count(u.ID); n != 1 {
		t.Fatalf("notifications = %d, want 1", n)
	}
}

func TestSubmitScoreRejectsBadInput(t *testing.T) {
	ts := newTestServices(t)
	u := createUser(t, ts.db, "ada")
	game := gameByName(t, ts.db, database.GameSyntaxQuiz)

	if _, err := ts.games.SubmitScore(context.Background(), game.ID, 10); !apperr.IsUnauthenticated(err) {
		t.Fatalf("anonymous: got %v", err)
	}
	if _, err := ts.games.SubmitScore(as(u), game.ID, -1); !apperr.IsValidation(err) {
		t.Fatalf("negative score: got %v", err)
	}
	if _, err := ts.games.SubmitScore(as(u), 9999, 10); !apperr.IsNotFound(err) {
		t.Fatalf("unknown game: got %v", err)
	}

	var rows int64
	ts.db.Model(&models.GameScore{}).Count(&rows)
	if rows != 0 {
		t.Fatalf("rejected submissions stored %d rows", rows)
	}
}

func TestGameMasterAfterEveryGame(t *testing.T) {
	ts := newTestServices(t)
	u := createUser(t, ts.db, "ada")
	ctx := as(u)

	var last *ScoreSubmission
	for _, g := range database.Games {
		game := gameByName(t, ts.db, g.Name)
		var err error
		if last, err = ts.games.SubmitScore(ctx, game.ID, 10); err != nil {
			t.Fatalf("submit %s: %v", g.Name, err)
		}
	}
	if !codesOf(last.Unlocked)[models.AchievementGameMaster] {
		t.Fatalf("fifth distinct game should unlock GAME_MASTER, got %v", last.Unlocked)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	ts := newTestServices(t)
	game := gameByName(t, ts.db, database.GameDebugChallenge)

	scores := []int{50, 90, 90, 30}
	users := make([]*models.User, len(scores))
	for i, score := range scores {
		users[i] = createUser(t, ts.db, string(rune('a'+i))+"-player")
		if _, err := ts.games.SubmitScore(as(users[i]), game.ID, score); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	board, err := ts.games.GetLeaderboard(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	wantScores := []int{90, 90, 50, 30}
	wantUsers := []uint{users[1].ID, users[2].ID, users[0].ID, users[3].ID}
	if len(board) != len(wantScores) {
		t.Fatalf("leaderboard has %d entries", len(board))
	}
	for i, e := range board {
		if e.Score != wantScores[i] || e.UserID != wantUsers[i] || e.Rank != i+1 {
			t.Fatalf("entry %d = %+v", i, e)
		}
		if e.Username == "" {
			t.Fatalf("entry %d missing user", i)
		}
	}

	empty, err := ts.games.GetLeaderboard(context.Background(), 9999)
	if err != nil || len(empty) != 0 {
		t.Fatalf("unknown game leaderboard: %v, %v", empty, err)
	}
}

func TestGetUserStats(t *testing.T) {
	ts := newTestServices(t)
	u := createUser(t, ts.db, "ada")
	ctx := as(u)

	plays := []struct {
		game  string
		score int
	}{
		{database.GameSyntaxQuiz, 100},
		{database.GameSyntaxQuiz, 300},
		{database.GameDebugChallenge, 200},
		{database.GameOutputPredictor, 50},
		{database.GameCodeCompletion, 10},
	}
	for _, p := range plays {
		if _, err := ts.games.SubmitScore(ctx, gameByName(t, ts.db, p.game).ID, p.score); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	stats, err := ts.games.GetUserStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.GamesPlayed != 5 || stats.TotalScore != 660 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(stats.HighScores) != 3 || stats.HighScores[0].GameName != database.GameSyntaxQuiz || stats.HighScores[0].HighScore != 300 {
		t.Fatalf("high scores = %+v", stats.HighScores)
	}
	if len(stats.RecentGames) != 5 || stats.RecentGames[0].Game == nil {
		t.Fatalf("recent games = %+v", stats.RecentGames)
	}

	anon, err := ts.games.GetUserStats(context.Background())
	if err != nil || anon.GamesPlayed != 0 || len(anon.HighScores) != 0 {
		t.Fatalf("anonymous stats: %+v, %v", anon, err)
	}
}

func TestGetChallenges(t *testing.T) {
	ts := newTestServices(t)
	game := gameByName(t, ts.db, database.GameDebugChallenge)

	set, err := ts.games.GetChallenges(context.Background(), game.ID)
	if err != nil || len(set) == 0 {
		t.Fatalf("challenges: %d, %v", len(set), err)
	}
	none, err := ts.games.GetChallenges(context.Background(), 9999)
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown game challenges: %v, %v", none, err)
	}
}
