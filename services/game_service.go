package services

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/identity"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
	"gorm.io/gorm"
)

const (
	leaderboardSize = 10
	topScoresSize   = 3
	recentPlaysSize = 5
)

type HighScore struct {
	GameID    uint   `json:"game_id"`
	GameName  string `json:"game_name"`
	HighScore int    `json:"high_score"`
}

type UserGameStats struct {
	GamesPlayed int64              `json:"games_played"`
	TotalScore  int64              `json:"total_score"`
	HighScores  []HighScore        `json:"high_scores"`
	RecentGames []models.GameScore `json:"recent_games"`
}

type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Score       int       `json:"score"`
	PlayedAt    time.Time `json:"played_at"`
}

type ScoreSubmission struct {
	Score     *models.GameScore    `json:"score"`
	XPGranted int                  `json:"xp_granted"`
	Unlocked  []models.Achievement `json:"unlocked_achievements"`
}

type GameService struct {
	db      *gorm.DB
	log     *logger.Logger
	rewards *RewardService
}

func NewGameService(db *gorm.DB, baseLog *logger.Logger, rewards *RewardService) *GameService {
	return &GameService{db: db, log: baseLog.With("service", "GameService"), rewards: rewards}
}

// ScoreXP is the XP earned for a score: one point per ten.
func ScoreXP(score int) int {
	if score <= 0 {
		return 0
	}
	return score / scorePointsPerXP
}

func (s *GameService) ListGames(ctx context.Context) ([]models.Game, error) {
	games := []models.Game{}
	if err := s.db.WithContext(ctx).Order("id asc").Find(&games).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	return games, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID uint) (*models.Game, error) {
	var game models.Game
	err := s.db.WithContext(ctx).First(&game, gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("game")
	}
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &game, nil
}

// GetChallenges returns the static challenge set of a game; unknown games
// have none.
func (s *GameService) GetChallenges(ctx context.Context, gameID uint) ([]Challenge, error) {
	game, err := s.GetGame(ctx, gameID)
	if apperr.IsNotFound(err) {
		return []Challenge{}, nil
	}
	if err != nil {
		return nil, err
	}
	return ChallengesFor(game.Name), nil
}

// SubmitScore records an attempt, grants score XP and evaluates game
// achievements against the updated play counts. No upper bound is enforced.
func (s *GameService) SubmitScore(ctx context.Context, gameID uint, score int) (*ScoreSubmission, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return nil, apperr.Unauthenticated()
	}
	if score < 0 {
		return nil, apperr.Field("score", "score must be non-negative")
	}

	out := &ScoreSubmission{XPGranted: ScoreXP(score)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("game")
			}
			return apperr.Unexpected(err)
		}

		row := models.GameScore{UserID: userID, GameID: gameID, Score: score, PlayedAt: time.Now().UTC()}
		if err := tx.Create(&row).Error; err != nil {
			return apperr.Unexpected(err)
		}
		row.Game = &game
		out.Score = &row

		if err := s.rewards.GrantXP(ctx, tx, userID, out.XPGranted); err != nil {
			return err
		}

		var err error
		out.Unlocked, err = s.rewards.EvaluateAchievements(ctx, tx, userID, AchievementEvent{Trigger: TriggerGamePlayed, Score: score})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("score submitted", "user_id", userID, "game_id", gameID, "score", score, "xp", out.XPGranted)
	s.rewards.Publish(userID, out.Unlocked)
	return out, nil
}

// GetUserStats aggregates the acting user's plays. Anonymous callers get
// zero stats.
func (s *GameService) GetUserStats(ctx context.Context) (*UserGameStats, error) {
	out := &UserGameStats{HighScores: []HighScore{}, RecentGames: []models.GameScore{}}
	userID, ok := identity.UserID(ctx)
	if !ok {
		return out, nil
	}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.GameScore{}).Where("user_id = ?", userID).Count(&out.GamesPlayed).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	if err := db.Model(&models.GameScore{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(score), 0)").Scan(&out.TotalScore).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	if err := db.Table("game_scores AS gs").
		Select("g.id AS game_id, g.name AS game_name, MAX(gs.score) AS high_score").
		Joins("JOIN games g ON gs.game_id = g.id").
		Where("gs.user_id = ?", userID).
		Group("g.id, g.name").
		Order("high_score desc, g.id asc").
		Limit(topScoresSize).
		Scan(&out.HighScores).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	if err := db.Preload("Game").Where("user_id = ?", userID).
		Order("played_at desc, id desc").
		Limit(recentPlaysSize).
		Find(&out.RecentGames).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	return out, nil
}

// GetLeaderboard returns the top scores of a game across all users. Equal
// scores keep submission order.
func (s *GameService) GetLeaderboard(ctx context.Context, gameID uint) ([]LeaderboardEntry, error) {
	var rows []models.GameScore
	if err := s.db.WithContext(ctx).Preload("User").
		Where("game_id = ?", gameID).
		Order("score desc, id asc").
		Limit(leaderboardSize).
		Find(&rows).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}

	out := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entry := LeaderboardEntry{Rank: i + 1, UserID: row.UserID, Score: row.Score, PlayedAt: row.PlayedAt}
		if row.User != nil {
			entry.Username = row.User.Username
			entry.DisplayName = row.User.Name()
			entry.AvatarURL = row.User.AvatarURL
		}
		out = append(out, entry)
	}
	return out, nil
}
