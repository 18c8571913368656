package handlers

import (
	"time"

	"github.com/anjiri1684/coded/identity"
	"github.com/anjiri1684/coded/middleware"
	"github.com/anjiri1684/coded/services"
	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.Auth.Register(c.UserContext(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	h.setSessionCookie(c, res.Token, res.ExpiresAt)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": res.User, "token": res.Token, "expires_at": res.ExpiresAt})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, res.Token, res.ExpiresAt)
	return c.JSON(fiber.Map{"user": res.User, "token": res.Token, "expires_at": res.ExpiresAt})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if sid, ok := middleware.SessionID(c); ok {
		if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
			return err
		}
	}
	c.ClearCookie(services.SessionCookieName)
	return c.SendStatus(fiber.StatusNoContent)
}

// Me returns the acting user, or null for anonymous callers.
func (h *Handler) Me(c *fiber.Ctx) error {
	user, ok := identity.User(c.UserContext())
	if !ok {
		return c.JSON(fiber.Map{"user": nil})
	}
	return c.JSON(fiber.Map{"user": user, "level": services.ComputeLevel(user.XPPoints)})
}
