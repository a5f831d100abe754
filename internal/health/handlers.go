package health

import (
	"context"

	"verdra-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers serves the ops endpoints. These sit outside /api and outside the
// session auth; Reset is gated by the admin key instead.
type Handlers struct {
	Rdb      *redis.Client
	DB       DBPinger
	AdminKey string
}

// JSON GET /health/json — the full health report.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	return c.JSON(CollectHealth(c.Context(), h.Rdb, h.DB))
}

// Reset GET /health/reset?key=... — zero the traffic counters.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if h.AdminKey == "" || c.Query("key") != h.AdminKey {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "Unauthorized",
		})
	}
	ctx := context.Background()
	h.Rdb.Del(ctx,
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
	)
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Stats reset successfully",
	})
}
