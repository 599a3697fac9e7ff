// Package api exposes the operator-facing REST surface: content intake,
// manual publishing, scan triggering and page directory maintenance.
package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"post_scheduler/internal/domain"
	"post_scheduler/internal/service"
)

// ScanTrigger starts a scan cycle out of band. Refused while one runs.
type ScanTrigger interface {
	TriggerScan() error
}

// PendingLister projects today's not-yet-handled items.
type PendingLister interface {
	PendingToday(ctx context.Context) ([]domain.ContentItem, error)
}

// PageSyncer refreshes the mirrored page directory from a user token.
type PageSyncer interface {
	Sync(ctx context.Context, userToken string) (int, error)
}

type Server struct {
	app *fiber.App

	contents   service.ContentStore
	templates  service.TemplateStore
	pages      service.PageStore
	dispatcher service.Dispatcher
	pending    PendingLister
	trigger    ScanTrigger
	pageSync   PageSyncer
	logger     *slog.Logger
}

func NewServer(
	contents service.ContentStore,
	templates service.TemplateStore,
	pages service.PageStore,
	dispatcher service.Dispatcher,
	pending PendingLister,
	trigger ScanTrigger,
	pageSync PageSyncer,
	logger *slog.Logger,
) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "post_scheduler",
			DisableStartupMessage: true,
		}),
		contents:   contents,
		templates:  templates,
		pages:      pages,
		dispatcher: dispatcher,
		pending:    pending,
		trigger:    trigger,
		pageSync:   pageSync,
		logger:     logger.With("component", "api"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	group := s.app.Group("/api")

	group.Get("/health", s.health)

	group.Post("/scan", s.triggerScan)
	group.Get("/pending", s.listPending)

	group.Post("/contents", s.createContent)
	group.Get("/contents/:id", s.getContent)
	group.Post("/contents/:id/publish", s.publishContent)

	group.Post("/pages/sync", s.syncPages)
	group.Get("/pages", s.listPages)

	group.Post("/templates", s.createTemplate)
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "alive",
	})
}

func respondError(c *fiber.Ctx, status int, code string, err error) error {
	return c.Status(status).JSON(ResponseData{
		Status:  status,
		Code:    code,
		Message: err.Error(),
	})
}
