package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) createTemplate(c *fiber.Ctx) error {
	var req CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "BAD_REQUEST", err)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err)
	}

	id, err := s.templates.Create(c.UserContext(), req.Name, req.Content)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err)
	}

	return c.Status(fiber.StatusCreated).JSON(ResponseData{
		Status:  fiber.StatusCreated,
		Code:    "SUCCESS",
		Message: "Template created",
		Results: map[string]any{"id": id},
	})
}
