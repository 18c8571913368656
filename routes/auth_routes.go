package routes

import (
	"github.com/anjiri1684/coded/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(api fiber.Router, h *handlers.Handler, protected, optional fiber.Handler) {
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/logout", protected, h.Logout)
	auth.Get("/me", optional, h.Me)
}
