package middleware

import (
	"crypto/subtle"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// APIKeyHeader is the request header carrying the shared ingestion secret.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey returns a middleware that enforces the shared API key on
// write endpoints. The comparison is constant-time.
func RequireAPIKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provided := c.Get(APIKeyHeader)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or missing API key"))
		}
		return c.Next()
	}
}
