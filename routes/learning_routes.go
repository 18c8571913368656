package routes

import (
	"github.com/anjiri1684/coded/handlers"
	"github.com/gofiber/fiber/v2"
)

func LearningRoutes(api fiber.Router, h *handlers.Handler, protected, optional fiber.Handler) {
	learning := api.Group("/learning")
	learning.Get("/modules", h.ListModules)
	learning.Get("/modules/:moduleId", h.GetModule)
	learning.Get("/modules/:moduleId/progress", optional, h.GetModuleProgress)
	learning.Get("/progress", optional, h.GetAllProgress)

	learning.Get("/lessons/:lessonId", h.GetLesson)
	learning.Get("/lessons/:lessonId/progress", optional, h.GetLessonProgress)
	learning.Post("/lessons/:lessonId/complete", protected, h.CompleteLesson)
	learning.Put("/lessons/:lessonId/position", protected, h.UpdateLessonPosition)
}
