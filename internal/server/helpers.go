package server

import (
	"brightpath/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON request body into out.
// On failure it writes a 400 JSON response and returns false.
func parseBody(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid request body"))
		return false
	}
	return true
}

// respond writes result on success and the failure envelope otherwise.
func respond(c *fiber.Ctx, result any, err error) error {
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}
