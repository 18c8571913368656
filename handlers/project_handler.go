package handlers

import (
	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/services"
	"github.com/gofiber/fiber/v2"
)

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Language    string `json:"language" validate:"required,max=50"`
	Description string `json:"description"`
	CodeContent string `json:"code_content" validate:"required"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Language    *string `json:"language" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description"`
	CodeContent *string `json:"code_content"`
	Status      *string `json:"status" validate:"omitempty,oneof=draft completed"`
}

func (h *Handler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.Projects.ListProjects(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(projects)
}

func (h *Handler) GetProject(c *fiber.Ctx) error {
	id, err := idParam(c, "projectId")
	if err != nil {
		return err
	}
	p, err := h.Projects.GetProject(c.UserContext(), id)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFound("project")
	}
	return c.JSON(p)
}

func (h *Handler) CreateProject(c *fiber.Ctx) error {
	var req CreateProjectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.Projects.CreateProject(c.UserContext(), services.CreateProjectInput{
		Name:        req.Name,
		Language:    req.Language,
		Description: req.Description,
		CodeContent: req.CodeContent,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) UpdateProject(c *fiber.Ctx) error {
	id, err := idParam(c, "projectId")
	if err != nil {
		return err
	}
	var req UpdateProjectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.Projects.UpdateProject(c.UserContext(), id, services.UpdateProjectInput{
		Name:        req.Name,
		Language:    req.Language,
		Description: req.Description,
		CodeContent: req.CodeContent,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) DeleteProject(c *fiber.Ctx) error {
	id, err := idParam(c, "projectId")
	if err != nil {
		return err
	}
	if err := h.Projects.DeleteProject(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
