package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"post_scheduler/internal/domain"
)

func (s *Server) createContent(c *fiber.Ctx) error {
	var req CreateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "BAD_REQUEST", err)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err)
	}

	item := req.toDomain()
	if err := s.contents.Create(c.UserContext(), item); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err)
	}

	s.logger.Info("content created", "item_id", item.ID, "name", item.Name)

	return c.Status(fiber.StatusCreated).JSON(ResponseData{
		Status:  fiber.StatusCreated,
		Code:    "SUCCESS",
		Message: "Content created",
		Results: item,
	})
}

func (s *Server) getContent(c *fiber.Ctx) error {
	item, err := s.contents.GetByID(c.UserContext(), c.Params("id"))
	if errors.Is(err, domain.ErrContentNotFound) {
		return respondError(c, fiber.StatusNotFound, "NOT_FOUND", err)
	}
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err)
	}

	return c.JSON(ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Content fetched",
		Results: item,
	})
}

// publishContent dispatches one item immediately, outside the scheduler
// loop. With defer_at set, the posts are staged on the provider's own
// scheduler instead of going live.
func (s *Server) publishContent(c *fiber.Ctx) error {
	var req PublishContentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, fiber.StatusBadRequest, "BAD_REQUEST", err)
		}
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err)
	}

	ctx := c.UserContext()
	item, err := s.contents.GetByID(ctx, c.Params("id"))
	if errors.Is(err, domain.ErrContentNotFound) {
		return respondError(c, fiber.StatusNotFound, "NOT_FOUND", err)
	}
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err)
	}

	report, err := s.dispatcher.Dispatch(ctx, item, req.DeferAt)
	if errors.Is(err, domain.ErrNoTargets) {
		return respondError(c, fiber.StatusBadRequest, "BAD_REQUEST", err)
	}
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err)
	}

	return c.JSON(ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: report.Message,
		Results: report,
	})
}
