package handlers

import (
	"github.com/anjiri1684/coded/apperr"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	DisplayName string  `json:"display_name" validate:"required,min=2,max=50"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	p, err := h.Profile.GetProfile(c.UserContext())
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.Unauthenticated()
	}
	return c.JSON(p)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.Profile.UpdateProfile(c.UserContext(), req.DisplayName, req.AvatarURL)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) ListMyCertificates(c *fiber.Ctx) error {
	certs, err := h.Certificates.ListCertificates(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(certs)
}
