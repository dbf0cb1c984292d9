// Package api is the delivery layer: Fiber handlers that parse requests,
// invoke usecases and map domain errors to HTTP status codes.
package api

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"newsreel/internal/domain/entity"
)

// RequestID tags every request so log lines from one call can be correlated.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("request_id", id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}

// BearerAuth guards mutating endpoints with the shared internal secret.
// The comparison is constant-time; a wrong or missing token is a 401 and the
// handler never runs.
func BearerAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		const prefix = "Bearer "
		header := c.Get(fiber.HeaderAuthorization)
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": entity.ErrUnauthorized.Error()})
		}
		token := header[len(prefix):]
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": entity.ErrUnauthorized.Error()})
		}

		// Sibling services identify themselves for the usage budget; anything
		// anonymous shares one bucket.
		caller := c.Get("X-Caller")
		if caller == "" {
			caller = "internal"
		}
		c.Locals("caller", caller)
		return c.Next()
	}
}

func callerFrom(c *fiber.Ctx) string {
	if caller, ok := c.Locals("caller").(string); ok && caller != "" {
		return caller
	}
	return "internal"
}
