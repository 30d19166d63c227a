package songs

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the songs feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the songs feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetSongs is the handler for listing songs.
func (h *Handler) GetSongs(c *fiber.Ctx) error {
	params := ListParams{
		SongIDs:  c.Query("song_ids"),
		Artists:  c.Query("artist_name"),
		FilterBy: c.Query("filter_by"),
		Fields:   c.Query("fields"),
	}
	slog.Debug("GetSongs handler called", "params", params)

	listing, err := h.service.List(c.UserContext(), params)
	if err != nil {
		return err
	}

	empty := len(listing.Records) == 0
	if wantsHTML(c) {
		message := ""
		if empty && listing.Strict {
			message = NoResultsMessage
		}
		return c.Render("songs/table", fiber.Map{
			"Projection": listing.Projection,
			"Records":    listing.Records,
			"Message":    message,
		})
	}

	if empty && listing.Strict {
		return c.JSON(fiber.Map{"error": NoResultsMessage})
	}
	return c.JSON(listing.Records)
}

// GetStats is the handler for per-artist song counts.
func (h *Handler) GetStats(c *fiber.Ctx) error {
	artists := c.Query("artist_name")
	slog.Debug("GetStats handler called", "artist_name", artists)

	stats, err := h.service.Stats(c.UserContext(), artists)
	if err != nil {
		return err
	}

	if wantsHTML(c) {
		return c.Render("songs/stats", fiber.Map{
			"Stats": stats,
		})
	}
	return c.JSON(stats)
}

// wantsHTML reports whether the request comes from an HTMX swap. Plain
// browser requests keep getting JSON.
func wantsHTML(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}
