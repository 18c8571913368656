package handlers

import (
	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/identity"
	"github.com/gofiber/fiber/v2"
)

type SubmitScoreRequest struct {
	Score *int `json:"score" validate:"required,min=0"`
}

func (h *Handler) ListGames(c *fiber.Ctx) error {
	games, err := h.Games.ListGames(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(games)
}

func (h *Handler) GetGame(c *fiber.Ctx) error {
	id, err := idParam(c, "gameId")
	if err != nil {
		return err
	}
	game, err := h.Games.GetGame(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(game)
}

func (h *Handler) GetChallenges(c *fiber.Ctx) error {
	id, err := idParam(c, "gameId")
	if err != nil {
		return err
	}
	set, err := h.Games.GetChallenges(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(set)
}

func (h *Handler) GetLeaderboard(c *fiber.Ctx) error {
	id, err := idParam(c, "gameId")
	if err != nil {
		return err
	}
	board, err := h.Games.GetLeaderboard(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(board)
}

func (h *Handler) SubmitScore(c *fiber.Ctx) error {
	id, err := idParam(c, "gameId")
	if err != nil {
		return err
	}
	var req SubmitScoreRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.Games.SubmitScore(c.UserContext(), id, *req.Score)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *Handler) GetGameStats(c *fiber.Ctx) error {
	stats, err := h.Games.GetUserStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *Handler) GetMyAchievements(c *fiber.Ctx) error {
	userID, ok := identity.UserID(c.UserContext())
	if !ok {
		return apperr.Unauthenticated()
	}
	rows, err := h.Rewards.ListUserAchievements(c.UserContext(), userID, 0)
	if err != nil {
		return err
	}
	return c.JSON(rows)
}
