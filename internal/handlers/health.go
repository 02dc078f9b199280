// Package handlers contains the HTTP route handlers of the golf scoring API.
//
// Handlers are built by factory functions that take their dependencies (stores, the
// scoring engine, the live hub) and return a fiber.Handler, so nothing is global and every
// handler can be exercised against in-memory fakes. Failures are reported as
// {"error": "..."} JSON bodies with a matching status code.
package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger checks that a dependency (the database) answers.
type Pinger func(ctx context.Context) error

// HealthCheck handles GET /health. It answers 200 {"status":"ok"} when the database responds
// within two seconds and 503 otherwise, so load balancers stop routing to an instance that
// lost its connection. A nil ping only reports that the process is up.
func HealthCheck(ping Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
					"error":  "database unreachable",
				})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
