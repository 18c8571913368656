package routes

import (
	"github.com/anjiri1684/coded/handlers"
	"github.com/gofiber/fiber/v2"
)

func ProjectRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	projects := api.Group("/projects", protected)
	projects.Get("", h.ListProjects)
	projects.Post("", h.CreateProject)
	projects.Get("/:projectId", h.GetProject)
	projects.Put("/:projectId", h.UpdateProject)
	projects.Delete("/:projectId", h.DeleteProject)
}
