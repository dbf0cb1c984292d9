package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"newsreel/internal/domain/entity"
)

// writeError maps domain errors to HTTP status codes. Validation failures
// carry the offending field so callers can fix the request without guessing.
func writeError(c *fiber.Ctx, err error) error {
	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": verr.Reason,
			"field": verr.Field,
		})
	}

	switch {
	case errors.Is(err, entity.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrBudgetExceeded):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrNotReady):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
