package songs

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the songs feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	songs := app.Group("/songs")
	songs.Get("/", handler.GetSongs)
	songs.Get("/stats", handler.GetStats)
}
