package handlers

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	stats, err := h.Dashboard.GetDashboardStats(ctx)
	if err != nil {
		return err
	}
	learning, err := h.Dashboard.GetLearningProgress(ctx)
	if err != nil {
		return err
	}
	achievements, err := h.Dashboard.GetRecentAchievements(ctx)
	if err != nil {
		return err
	}
	games, err := h.Dashboard.GetRecentGames(ctx)
	if err != nil {
		return err
	}
	projects, err := h.Dashboard.GetSavedProjects(ctx)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"stats":               stats,
		"learning_progress":   learning,
		"recent_achievements": achievements,
		"recent_games":        games,
		"saved_projects":      projects,
	})
}

func (h *Handler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.Dashboard.GetDashboardStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
