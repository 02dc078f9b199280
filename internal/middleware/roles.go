package middleware

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/golf-scoring/internal/models"
)

// RequireRole lets the request through only when the caller's global role is one of roles.
// It must run after Auth, which stores "userRole" in the locals.
//
//	api.Post("/events", middleware.RequireRole(models.UserRoleAdmin, models.UserRoleManager), handlers.CreateEvent(events, logger))
func RequireRole(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("userRole").(string)
		if !ok || role == "" {
			// Auth didn't run or stored nothing: authenticated or not, there is no role to grant.
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		if slices.Contains(roles, models.UserRole(role)) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}
}
