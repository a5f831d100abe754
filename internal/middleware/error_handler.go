package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Handlers map domain errors to
// 4xx responses themselves; anything that escapes here is unexpected and is
// logged and surfaced as an opaque plain-text 500, no detail leakage.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).SendString(e.Message)
	}
	log.Error().
		Str("trace_id", GetTraceID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Err(err).
		Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
}
