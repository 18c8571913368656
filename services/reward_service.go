package services

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	xpPerLevel            = 1000
	xpForLessonCompletion = 50
	xpForModuleCompletion = 200
	scorePointsPerXP      = 10
)

// ComputeLevel derives the level from XP; levels are never stored.
func ComputeLevel(xpPoints int) int {
	if xpPoints < 0 {
		xpPoints = 0
	}
	return xpPoints/xpPerLevel + 1
}

type Trigger int

const (
	TriggerGamePlayed Trigger = iota + 1
	TriggerLearning
)

type AchievementEvent struct {
	Trigger Trigger
	Score   int
}

// AchievementCounts are the aggregates the unlock rules are checked against.
type AchievementCounts struct {
	GamesPlayed      int64
	DistinctGames    int64
	LessonsCompleted int64
	ModulesCompleted int64
	Score            int
}

type achievementRule struct {
	code    models.AchievementCode
	trigger Trigger
	met     func(c AchievementCounts) bool
}

// Count thresholds fire on exact equality only.
var achievementRules = []achievementRule{
	{models.AchievementFirstGame, TriggerGamePlayed, func(c AchievementCounts) bool { return c.GamesPlayed == 1 }},
	{models.AchievementGameMaster, TriggerGamePlayed, func(c AchievementCounts) bool { return c.DistinctGames == 5 }},
	{models.AchievementHighScorer, TriggerGamePlayed, func(c AchievementCounts) bool { return c.Score >= 1000 }},
	{models.AchievementDedicatedPlayer, TriggerGamePlayed, func(c AchievementCounts) bool { return c.GamesPlayed == 10 }},
	{models.AchievementFirstLesson, TriggerLearning, func(c AchievementCounts) bool { return c.LessonsCompleted == 1 }},
	{models.AchievementFiveLessons, TriggerLearning, func(c AchievementCounts) bool { return c.LessonsCompleted == 5 }},
	{models.AchievementFirstModule, TriggerLearning, func(c AchievementCounts) bool { return c.ModulesCompleted == 1 }},
}

// QualifyingAchievements returns the codes whose rule matches the trigger and counts.
func QualifyingAchievements(trigger Trigger, counts AchievementCounts) []models.AchievementCode {
	var codes []models.AchievementCode
	for _, rule := range achievementRules {
		if rule.trigger == trigger && rule.met(counts) {
			codes = append(codes, rule.code)
		}
	}
	return codes
}

type RewardService struct {
	db       *gorm.DB
	log      *logger.Logger
	notifier Notifier
}

func NewRewardService(db *gorm.DB, baseLog *logger.Logger, notifier Notifier) *RewardService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &RewardService{db: db, log: baseLog.With("service", "RewardService"), notifier: notifier}
}

func (s *RewardService) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = s.db
	}
	return tx.WithContext(ctx)
}

// GrantXP atomically increments the user's XP. The increment happens in the
// UPDATE statement so concurrent grants never lose each other.
func (s *RewardService) GrantXP(ctx context.Context, tx *gorm.DB, userID uint, amount int) error {
	if amount < 0 {
		return apperr.Field("amount", "XP amount must be non-negative")
	}
	if amount == 0 {
		return nil
	}
	res := s.conn(ctx, tx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("xp_points", gorm.Expr("xp_points + ?", amount))
	if res.Error != nil {
		return apperr.Unexpected(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// AwardAchievement inserts the (user, achievement) row if absent and grants
// the achievement's XP reward only when the insert took effect. Unknown codes
// are logged and ignored.
func (s *RewardService) AwardAchievement(ctx context.Context, tx *gorm.DB, userID uint, code models.AchievementCode) (*models.Achievement, error) {
	db := s.conn(ctx, tx)

	var achievement models.Achievement
	if err := db.Where("code = ?", code).First(&achievement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("achievement not in catalog, cannot award", "code", code)
			return nil, nil
		}
		return nil, apperr.Unexpected(err)
	}

	row := models.UserAchievement{UserID: userID, AchievementID: achievement.ID, EarnedAt: time.Now().UTC()}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return nil, apperr.Unexpected(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	if err := s.GrantXP(ctx, tx, userID, achievement.XPReward); err != nil {
		return nil, err
	}
	s.log.Info("achievement awarded", "user_id", userID, "code", code, "xp_reward", achievement.XPReward)
	return &achievement, nil
}

// Counts loads the aggregates needed by the rules of the given trigger.
func (s *RewardService) Counts(ctx context.Context, tx *gorm.DB, userID uint, trigger Trigger) (AchievementCounts, error) {
	db := s.conn(ctx, tx)
	var c AchievementCounts
	var err error

	switch trigger {
	case TriggerGamePlayed:
		if err = db.Model(&models.GameScore{}).Where("user_id = ?", userID).Count(&c.GamesPlayed).Error; err != nil {
			break
		}
		err = db.Model(&models.GameScore{}).Where("user_id = ?", userID).Distinct("game_id").Count(&c.DistinctGames).Error
	case TriggerLearning:
		if err = db.Model(&models.UserLessonProgress{}).
			Where("user_id = ? AND is_completed = ?", userID, true).
			Count(&c.LessonsCompleted).Error; err != nil {
			break
		}
		err = db.Model(&models.UserProgress{}).
			Where("user_id = ? AND completed = ?", userID, true).
			Count(&c.ModulesCompleted).Error
	}
	if err != nil {
		return c, apperr.Unexpected(err)
	}
	return c, nil
}

// EvaluateAchievements checks every rule bound to the event's trigger against
// current counts and awards what newly qualifies.
func (s *RewardService) EvaluateAchievements(ctx context.Context, tx *gorm.DB, userID uint, event AchievementEvent) ([]models.Achievement, error) {
	counts, err := s.Counts(ctx, tx, userID, event.Trigger)
	if err != nil {
		return nil, err
	}
	counts.Score = event.Score

	var unlocked []models.Achievement
	for _, code := range QualifyingAchievements(event.Trigger, counts) {
		a, err := s.AwardAchievement(ctx, tx, userID, code)
		if err != nil {
			return unlocked, err
		}
		if a != nil {
			unlocked = append(unlocked, *a)
		}
	}
	return unlocked, nil
}

// Publish pushes unlocked achievements to the user once the surrounding
// unit of work has committed.
func (s *RewardService) Publish(userID uint, unlocked []models.Achievement) {
	notifyAchievements(s.notifier, userID, unlocked)
}

func (s *RewardService) ListUserAchievements(ctx context.Context, userID uint, limit int) ([]models.UserAchievement, error) {
	var rows []models.UserAchievement
	q := s.db.WithContext(ctx).Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	return rows, nil
}
