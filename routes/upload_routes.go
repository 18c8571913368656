package routes

import (
	"github.com/anjiri1684/coded/handlers"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	uploads := api.Group("/uploads", protected)
	uploads.Get("/signature", h.GenerateUploadSignature)
}
