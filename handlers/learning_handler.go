package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type LessonPositionRequest struct {
	Position *int `json:"position" validate:"required,min=0"`
}

func (h *Handler) ListModules(c *fiber.Ctx) error {
	modules, err := h.Learning.ListModules(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(modules)
}

func (h *Handler) GetModule(c *fiber.Ctx) error {
	id, err := idParam(c, "moduleId")
	if err != nil {
		return err
	}
	module, err := h.Learning.GetModuleWithLessons(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(module)
}

func (h *Handler) GetModuleProgress(c *fiber.Ctx) error {
	id, err := idParam(c, "moduleId")
	if err != nil {
		return err
	}
	summary, err := h.Progress.GetModuleProgress(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (h *Handler) GetAllProgress(c *fiber.Ctx) error {
	rows, err := h.Progress.GetAllProgress(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

func (h *Handler) GetLesson(c *fiber.Ctx) error {
	id, err := idParam(c, "lessonId")
	if err != nil {
		return err
	}
	lesson, err := h.Learning.GetLessonWithContent(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(lesson)
}

func (h *Handler) GetLessonProgress(c *fiber.Ctx) error {
	id, err := idParam(c, "lessonId")
	if err != nil {
		return err
	}
	row, err := h.Progress.GetLessonProgress(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"progress": row})
}

func (h *Handler) CompleteLesson(c *fiber.Ctx) error {
	id, err := idParam(c, "lessonId")
	if err != nil {
		return err
	}
	res, err := h.Progress.MarkLessonCompleted(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) UpdateLessonPosition(c *fiber.Ctx) error {
	id, err := idParam(c, "lessonId")
	if err != nil {
		return err
	}
	var req LessonPositionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	row, err := h.Progress.UpdateLessonPosition(c.UserContext(), id, *req.Position)
	if err != nil {
		return err
	}
	return c.JSON(row)
}
