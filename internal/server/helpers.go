package server

import (
	"errors"
	"log/slog"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid comment ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondServiceError maps an AppError code onto an HTTP status and writes
// the standardized error body. Unrecognized errors become opaque 500s and
// get logged with detail server-side.
func respondServiceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeValidation:
			status = fiber.StatusBadRequest
		case models.CodeInvalidCategory:
			// The valid set is echoed back so callers can self-correct.
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":               appErr.Message,
				"code":                appErr.Code,
				"availableCategories": models.AssignableCategories(),
			})
		case models.CodeUnauthorized:
			status = fiber.StatusUnauthorized
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeConflict:
			status = fiber.StatusConflict
		}
	}

	if status == fiber.StatusInternalServerError {
		observability.RecordErrorInContext(c.UserContext(), err)
		middleware.Logger.ErrorContext(c.UserContext(), "request failed with internal error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	return models.RespondWithError(c, status, err)
}

// parseLimitOffset reads pagination query parameters. A missing or
// non-positive limit means "no limit", matching the listing contract.
func parseLimitOffset(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 0)
	if limit < 0 {
		limit = 0
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
