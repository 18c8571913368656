package routes

import (
	"github.com/anjiri1684/coded/handlers"
	"github.com/gofiber/fiber/v2"
)

func DashboardRoutes(api fiber.Router, h *handlers.Handler, optional fiber.Handler) {
	dashboard := api.Group("/dashboard", optional)
	dashboard.Get("", h.GetDashboard)
	dashboard.Get("/stats", h.GetDashboardStats)
}
