package hosting

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestIDMiddleware reuses the caller's request ID or mints a new one, and
// echoes it on the response.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(requestIDKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

// RequestID returns the ID RequestIDMiddleware stored for this request.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// LogAllRequestsMiddleware logs all requests with HTMX context. Errors are
// resolved through the app ErrorHandler here so the logged status is the one
// the client gets.
func LogAllRequestsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestType := "normal"
		if c.Get("HX-Request") == "true" {
			requestType = "htmx"
		}

		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		duration := time.Since(start)
		status := c.Response().StatusCode()
		attrs := []any{
			"request_id", RequestID(c),
			"type", requestType,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", duration.String(),
		}

		switch {
		case status >= 500:
			slog.Error("HTTP request", append(attrs, "error", err)...)
		case status >= 400:
			slog.Warn("HTTP request", append(attrs, "error", err)...)
		default:
			slog.Debug("HTTP request", attrs...)
		}
		return nil
	}
}
