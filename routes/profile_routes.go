package routes

import (
	"github.com/anjiri1684/coded/handlers"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	profile := api.Group("/profile/me", protected)
	profile.Get("", h.GetProfile)
	profile.Put("", h.UpdateProfile)
	profile.Get("/certificates", h.ListMyCertificates)
	profile.Get("/achievements", h.GetMyAchievements)
}
