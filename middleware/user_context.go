// middleware/user_context.go
package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tournament-settlement-system/services"
)

// UserContextMiddleware extracts user identity and roles set by Gateway.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			slog.Warn("[USER_CTX] X-User-ID missing on secured route", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID: request must come through gateway with auth context",
			})
		}

		var roles []string
		for _, r := range strings.Split(c.Get("X-User-Roles"), ",") {
			if r = strings.ToUpper(strings.TrimSpace(r)); r != "" {
				roles = append(roles, r)
			}
		}

		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)

		slog.Debug("[USER_CTX] resolved", "user_id", userID, "roles", roles, "path", c.Path())
		return c.Next()
	}
}

// RequireRoles rejects callers holding none of roles. Must run after UserContextMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		have, _ := c.Locals("user_roles").([]string)
		if !services.HasAnyRole(have, roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}
		return c.Next()
	}
}
