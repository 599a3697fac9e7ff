package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) syncPages(c *fiber.Ctx) error {
	var req SyncPagesRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "BAD_REQUEST", err)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err)
	}

	count, err := s.pageSync.Sync(c.UserContext(), req.UserToken)
	if err != nil {
		return respondError(c, fiber.StatusBadGateway, "PROVIDER_ERROR", err)
	}

	return c.JSON(ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Pages synced",
		Results: map[string]any{"count": count},
	})
}

func (s *Server) listPages(c *fiber.Ctx) error {
	pages, err := s.pages.List(c.UserContext())
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err)
	}

	// Access tokens stay server-side.
	type pageView struct {
		PageID   string  `json:"page_id"`
		Name     string  `json:"name"`
		Category *string `json:"category,omitempty"`
	}
	views := make([]pageView, 0, len(pages))
	for _, p := range pages {
		views = append(views, pageView{PageID: p.PageID, Name: p.Name, Category: p.Category})
	}

	return c.JSON(ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Pages fetched",
		Results: views,
	})
}
