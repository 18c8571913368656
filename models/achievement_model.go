package models

import "time"

type AchievementCode string

const (
	AchievementFirstGame       AchievementCode = "FIRST_GAME"
	AchievementGameMaster      AchievementCode = "GAME_MASTER"
	AchievementHighScorer      AchievementCode = "HIGH_SCORER"
	AchievementDedicatedPlayer AchievementCode = "DEDICATED_PLAYER"
	AchievementFirstLesson     AchievementCode = "FIRST_LESSON"
	AchievementFiveLessons     AchievementCode = "FIVE_LESSONS"
	AchievementFirstModule     AchievementCode = "FIRST_MODULE"
)

type Achievement struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Code        AchievementCode `gorm:"size:50;not null;uniqueIndex" json:"code"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	IconName    string          `gorm:"size:50" json:"icon_name"`
	XPReward    int             `gorm:"not null;default:0" json:"xp_reward"`
}

// UserAchievement rows are created once and never revoked; the unique index
// on (user_id, achievement_id) is what makes awarding idempotent.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	EarnedAt      time.Time `gorm:"not null;index" json:"earned_at"`

	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}
