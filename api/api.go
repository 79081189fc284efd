// Package api serves workflow save, publish and load over HTTP.
package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	workflow "github.com/devHarshShah/swiftboard-frontend-sub001"
	"github.com/devHarshShah/swiftboard-frontend-sub001/internal/xjson"
)

// Handler serves the workflow routes on top of a Store.
type Handler struct {
	store  workflow.Store
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(store workflow.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, logger: logger.With("component", "api")}
}

// New builds a fiber app with the workflow routes, request metrics and panic
// recovery. Metrics sit outside recovery so panics are counted as 500s.
func New(store workflow.Store, logger *slog.Logger, middleware ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:     "swiftboard-workflow",
		JSONEncoder: xjson.Marshal,
		JSONDecoder: xjson.Unmarshal,
	})
	app.Use(instrument)
	app.Use(recoverer.New())
	for _, m := range middleware {
		app.Use(m)
	}

	NewHandler(store, logger).Register(app)
	return app
}

// Register mounts the routes on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	r.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// ── Workflows ─────────────────────────────────────────────────────
	r.Post("/workflow/create", h.createWorkflow)
	r.Post("/workflow/transform", h.transform)
	r.Post("/workflow/:projectId/publish", h.publishWorkflow)
	r.Get("/workflow/:id", h.getWorkflow)
	r.Get("/workflow/:id/graph", h.getGraph)
	r.Put("/workflow/:id", h.updateWorkflow)
	r.Delete("/workflow/:id", h.deleteWorkflow)
	r.Get("/projects/:projectId/workflows", h.listWorkflows)

	// ── Nodes & edges ─────────────────────────────────────────────────
	r.Get("/workflow/:id/nodes", h.listNodes)
	r.Get("/workflow/:id/nodes/:nodeId", h.getNode)
	r.Put("/workflow/:id/nodes/:nodeId", h.updateNode)
	r.Get("/workflow/:id/edges", h.listEdges)
	r.Get("/workflow/:id/edges/:edgeId", h.getEdge)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, workflow.ErrWorkflowNotFound),
		errors.Is(err, workflow.ErrNodeNotFound),
		errors.Is(err, workflow.ErrEdgeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, workflow.ErrWorkflowPublished):
		return fiber.StatusConflict
	case errors.Is(err, workflow.ErrMalformedPayload),
		errors.Is(err, workflow.ErrDanglingReference),
		errors.Is(err, workflow.ErrInvalidGraph),
		errors.Is(err, workflow.ErrBlockingCycle):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// fail writes err as a { message } body. Internal errors are logged and
// their details withheld.
func (h *Handler) fail(c fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		h.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return message(c, status, "internal server error")
	}
	return message(c, status, err.Error())
}

func message(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}
