package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"post_scheduler/internal/scheduler"
)

// triggerScan requests an out-of-band scan cycle. While a cycle is
// already running the request is refused, never queued behind it twice.
func (s *Server) triggerScan(c *fiber.Ctx) error {
	err := s.trigger.TriggerScan()
	if errors.Is(err, scheduler.ErrScanInProgress) {
		return respondError(c, fiber.StatusConflict, "SCAN_IN_PROGRESS", err)
	}
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(ResponseData{
		Status:  fiber.StatusAccepted,
		Code:    "SUCCESS",
		Message: "Scan triggered",
	})
}

func (s *Server) listPending(c *fiber.Ctx) error {
	items, err := s.pending.PendingToday(c.UserContext())
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err)
	}

	return c.JSON(ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Pending items fetched",
		Results: items,
	})
}
