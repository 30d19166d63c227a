package ui

import (
	"log/slog"

	"github.com/contre95/songbook/src/features/config"
	"github.com/contre95/songbook/src/songbook"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the UI feature.
type Handler struct {
	configManager *config.Manager
}

// NewHandler creates a new handler for the UI feature.
func NewHandler(configManager *config.Manager) *Handler {
	return &Handler{
		configManager: configManager,
	}
}

// RenderSongsSection renders the song browser. The table itself is loaded
// from /songs/ by the page.
func (h *Handler) RenderSongsSection(c *fiber.Ctx) error {
	slog.Debug("RenderSongsSection handler called")
	data := fiber.Map{
		"Title":  "Canciones",
		"Fields": songbook.Fields(),
		"Mode":   h.configManager.Get().Query.Mode,
	}
	if c.Get("HX-Request") != "true" {
		data["Section"] = "songs"
		return c.Render("main", data)
	}
	return c.Render("sections/songs", data)
}

// RenderStatsSection renders the per-artist statistics page.
func (h *Handler) RenderStatsSection(c *fiber.Ctx) error {
	slog.Debug("RenderStatsSection handler called")
	data := fiber.Map{
		"Title": "Estadísticas",
	}
	if c.Get("HX-Request") != "true" {
		data["Section"] = "stats"
		return c.Render("main", data)
	}
	return c.Render("sections/stats", data)
}
