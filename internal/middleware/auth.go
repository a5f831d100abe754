package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireAuth ensures a user is in the session. The Express requireAuth
// middleware answered plain-text 401 "Unauthorized"; same here.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("user") == nil {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}
		return c.Next()
	}
}
