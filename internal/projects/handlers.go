package projects

import (
	"verdra-backend/internal/middleware"
	"verdra-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers exposes the public project catalog reads.
type Handlers struct {
	Store *store.Store
}

// List GET /api/projects — bare JSON array of all projects.
func (h *Handlers) List(c *fiber.Ctx) error {
	projects, err := h.Store.GetProjects(c.Context())
	if err != nil {
		log.Error().Str("trace_id", middleware.GetTraceID(c)).Err(err).Msg("projects lookup failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	return c.JSON(projects)
}

// Get GET /api/projects/:id — one project, or plain-text 404. A non-numeric
// id resolves to no project, same as Express parseInt giving NaN.
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).SendString("Project not found")
	}
	project, err := h.Store.GetProject(c.Context(), id)
	if err != nil {
		log.Error().Str("trace_id", middleware.GetTraceID(c)).Int("project_id", id).Err(err).Msg("project lookup failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).SendString("Project not found")
	}
	return c.JSON(project)
}
