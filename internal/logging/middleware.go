package logging

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

// RequestLogger logs one line per request with method, path, status and
// latency. 5xx responses log at error level.
func RequestLogger() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			if e, ok := chainErr.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		event := Info()
		if status >= fiber.StatusInternalServerError {
			event = Error().Err(chainErr)
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")

		return chainErr
	}
}
