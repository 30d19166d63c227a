package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes exposes the registry in the Prometheus text format at path.
func RegisterRoutes(app *fiber.App, manager *Manager, path string) {
	handler := promhttp.HandlerFor(manager.Registry(), promhttp.HandlerOpts{})
	app.Get(path, adaptor.HTTPHandler(handler))
}

// Middleware records count and latency of every request. Routes are labelled by
// their registered pattern so that query strings never become label values.
// Errors are resolved through the app ErrorHandler first so the recorded status
// is the one the client gets.
func Middleware(manager *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "/" && r.Path != "" {
			route = r.Path
		}
		manager.ObserveRequest(c.Method(), route, status, time.Since(start))
		return nil
	}
}
