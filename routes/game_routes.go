package routes

import (
	"github.com/anjiri1684/coded/handlers"
	"github.com/gofiber/fiber/v2"
)

func GameRoutes(api fiber.Router, h *handlers.Handler, protected, optional fiber.Handler) {
	games := api.Group("/games")
	games.Get("", h.ListGames)
	// Registered before /:gameId so "stats" is not read as an id.
	games.Get("/stats", optional, h.GetGameStats)
	games.Get("/:gameId", h.GetGame)
	games.Get("/:gameId/challenges", h.GetChallenges)
	games.Get("/:gameId/leaderboard", h.GetLeaderboard)
	games.Post("/:gameId/scores", protected, h.SubmitScore)
}
