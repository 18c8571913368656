package services

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/identity"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
	"github.com/anjiri1684/coded/utils"
	"gorm.io/gorm"
)

const (
	newAchievementWindow = 30 * 24 * time.Hour
	dashboardListSize    = 4
)

type DashboardStats struct {
	ProgressPercentage int   `json:"progress_percentage"`
	XPPoints           int   `json:"xp_points"`
	Level              int   `json:"level"`
	LoginStreak        int   `json:"login_streak"`
	AchievementCount   int64 `json:"achievement_count"`
	NewAchievements    int64 `json:"new_achievements"`
}

// AnonymousDashboard is what display layers render without a user.
var AnonymousDashboard = DashboardStats{Level: ComputeLevel(0)}

type LanguageProgress struct {
	Name     string `json:"name"`
	Progress int    `json:"progress"`
}

type RecentAchievement struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Date        string `json:"date"`
}

type RecentGame struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Date  string `json:"date"`
	Icon  string `json:"icon"`
}

type SavedProject struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Language   string `json:"language"`
	LastEdited string `json:"last_edited"`
	Status     string `json:"status"`
}

// DashboardService is a read-only composition over progress, rewards and
// game data. It never fails for missing data.
type DashboardService struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewDashboardService(db *gorm.DB, baseLog *logger.Logger) *DashboardService {
	return &DashboardService{
		db:  db,
		log: baseLog.With("service", "DashboardService"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		stats := AnonymousDashboard
		return &stats, nil
	}
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Select("id", "xp_points", "login_streak").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stats := AnonymousDashboard
			return &stats, nil
		}
		return nil, apperr.Unexpected(err)
	}

	var moduleCount, completedModules int64
	if err := db.Model(&models.LearningModule{}).Count(&moduleCount).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	if err := db.Model(&models.UserProgress{}).Where("user_id = ? AND completed = ?", userID, true).
		Count(&completedModules).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}

	stats := &DashboardStats{
		ProgressPercentage: ProgressPercentage(completedModules, moduleCount),
		XPPoints:           user.XPPoints,
		Level:              ComputeLevel(user.XPPoints),
		LoginStreak:        user.LoginStreak,
	}
	if err := db.Model(&models.UserAchievement{}).Where("user_id = ?", userID).
		Count(&stats.AchievementCount).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	if err := db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND earned_at >= ?", userID, s.now().Add(-newAchievementWindow)).
		Count(&stats.NewAchievements).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	return stats, nil
}

func (s *DashboardService) GetLearningProgress(ctx context.Context) ([]LanguageProgress, error) {
	out := []LanguageProgress{}
	userID, ok := identity.UserID(ctx)
	if !ok {
		return out, nil
	}
	var rows []models.UserProgress
	if err := s.db.WithContext(ctx).Preload("Module").Where("user_id = ?", userID).
		Order("module_id asc").Find(&rows).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	for _, row := range rows {
		if row.Module == nil {
			continue
		}
		out = append(out, LanguageProgress{Name: row.Module.Language, Progress: row.ProgressPercentage})
	}
	return out, nil
}

func (s *DashboardService) GetRecentAchievements(ctx context.Context) ([]RecentAchievement, error) {
	out := []RecentAchievement{}
	userID, ok := identity.UserID(ctx)
	if !ok {
		return out, nil
	}
	var rows []models.UserAchievement
	if err := s.db.WithContext(ctx).Preload("Achievement").Where("user_id = ?", userID).
		Order("earned_at desc, id desc").Limit(dashboardListSize).Find(&rows).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	now := s.now()
	for _, row := range rows {
		if row.Achievement == nil {
			continue
		}
		icon := row.Achievement.IconName
		if icon == "" {
			icon = "Award"
		}
		out = append(out, RecentAchievement{
			ID:          row.Achievement.ID,
			Name:        row.Achievement.Name,
			Description: row.Achievement.Description,
			Icon:        icon,
			Date:        utils.FormatTimeAgo(row.EarnedAt, now),
		})
	}
	return out, nil
}

func (s *DashboardService) GetRecentGames(ctx context.Context) ([]RecentGame, error) {
	out := []RecentGame{}
	userID, ok := identity.UserID(ctx)
	if !ok {
		return out, nil
	}
	var rows []models.GameScore
	if err := s.db.WithContext(ctx).Preload("Game").Where("user_id = ?", userID).
		Order("played_at desc, id desc").Limit(dashboardListSize).Find(&rows).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	now := s.now()
	for _, row := range rows {
		if row.Game == nil {
			continue
		}
		icon := row.Game.IconName
		if icon == "" {
			icon = "Gamepad"
		}
		out = append(out, RecentGame{
			ID:    row.Game.ID,
			Name:  row.Game.Name,
			Score: row.Score,
			Date:  utils.FormatTimeAgo(row.PlayedAt, now),
			Icon:  icon,
		})
	}
	return out, nil
}

func (s *DashboardService) GetSavedProjects(ctx context.Context) ([]SavedProject, error) {
	out := []SavedProject{}
	userID, ok := identity.UserID(ctx)
	if !ok {
		return out, nil
	}
	var rows []models.Project
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("updated_at desc, id desc").Limit(dashboardListSize).Find(&rows).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	now := s.now()
	for _, p := range rows {
		out = append(out, SavedProject{
			ID:         p.ID,
			Name:       p.Name,
			Language:   p.Language,
			LastEdited: utils.FormatTimeAgo(p.UpdatedAt, now),
			Status:     p.Status,
		})
	}
	return out, nil
}
