package database

import (
	"github.com/anjiri1684/coded/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Game names double as the keys of the static challenge catalog.
const (
	GameDebugChallenge     = "Debug Challenge"
	GameSyntaxQuiz         = "Syntax Quiz"
	GameAlgorithmChallenge = "Algorithm Challenge"
	GameCodeCompletion     = "Code Completion"
	GameOutputPredictor    = "Output Predictor"
)

var Games = []models.Game{
	{Name: GameDebugChallenge, Description: "Find and fix bugs in short snippets.", IconName: "Bug"},
	{Name: GameSyntaxQuiz, Description: "Multiple choice questions on language syntax.", IconName: "HelpCircle"},
	{Name: GameAlgorithmChallenge, Description: "Implement small algorithms against test cases.", IconName: "Cpu"},
	{Name: GameCodeCompletion, Description: "Fill in the missing part of a function.", IconName: "Code"},
	{Name: GameOutputPredictor, Description: "Predict what a program prints.", IconName: "Terminal"},
}

var Achievements = []models.Achievement{
	{Code: models.AchievementFirstGame, Name: "First Game", Description: "Play your first game.", IconName: "Gamepad", XPReward: 50},
	{Code: models.AchievementGameMaster, Name: "Game Master", Description: "Play 5 different games.", IconName: "Trophy", XPReward: 250},
	{Code: models.AchievementHighScorer, Name: "High Scorer", Description: "Score 1000 points or more in a single game.", IconName: "Star", XPReward: 150},
	{Code: models.AchievementDedicatedPlayer, Name: "Dedicated Player", Description: "Play 10 games.", IconName: "Flame", XPReward: 200},
	{Code: models.AchievementFirstLesson, Name: "First Lesson", Description: "Complete your first lesson.", IconName: "BookOpen", XPReward: 50},
	{Code: models.AchievementFiveLessons, Name: "Five Lessons", Description: "Complete 5 lessons.", IconName: "Award", XPReward: 100},
	{Code: models.AchievementFirstModule, Name: "First Module", Description: "Complete your first module.", IconName: "GraduationCap", XPReward: 300},
}

// SeedCatalog inserts the static game and achievement catalogs. Existing rows
// are left untouched so the seed is safe to run on every start.
func SeedCatalog(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		games := make([]models.Game, len(Games))
		copy(games, Games)
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&games).Error; err != nil {
			return err
		}

		achievements := make([]models.Achievement, len(Achievements))
		copy(achievements, Achievements)
		return tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
			Create(&achievements).Error
	})
}
