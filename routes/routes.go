package routes

import (
	"github.com/anjiri1684/coded/handlers"
	"github.com/anjiri1684/coded/middleware"
	"github.com/gofiber/fiber/v2"
)

// Setup mounts every route group under /api/v1.
func Setup(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")
	protected := middleware.Protected(h.Auth)
	optional := middleware.Optional(h.Auth)

	AuthRoutes(api, h, protected, optional)
	ProfileRoutes(api, h, protected)
	LearningRoutes(api, h, protected, optional)
	GameRoutes(api, h, protected, optional)
	DashboardRoutes(api, h, optional)
	ProjectRoutes(api, h, protected)
	UploadRoutes(api, h, protected)
	WebsocketRoutes(api, h, protected)
}
