package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"pickwise/internal/logging"
	"pickwise/internal/validation"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// jsonRequestError returns 400 for a body that could not be decoded or that
// failed validation, listing the offending fields when known.
func jsonRequestError(c fiber.Ctx, err error) error {
	var reqErr *validation.RequestError
	if errors.As(err, &reqErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  reqErr.Error(),
			"fields": reqErr.Fields,
		})
	}
	return jsonError(c, fiber.StatusBadRequest, "invalid request body")
}

// jsonInternalError logs cause and returns a 500 with a generic message.
func jsonInternalError(c fiber.Ctx, message string, cause error) error {
	logging.Error().
		Err(cause).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(message)
	return jsonError(c, fiber.StatusInternalServerError, message)
}
