package config

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the config feature.
type Handler struct {
	configManager *Manager
}

// NewHandler creates a new handler for the config feature.
func NewHandler(configManager *Manager) *Handler {
	return &Handler{
		configManager: configManager,
	}
}

// GetConfig returns the current configuration, secrets redacted, in the requested format.
func (h *Handler) GetConfig(c *fiber.Ctx) error {
	format := c.Query("fmt", "yaml")
	slog.Debug("GetConfig handler called", "format", format)

	switch format {
	case "yaml":
		c.Set(fiber.HeaderContentType, "text/yaml")
		return c.SendString(h.configManager.GetYAML())
	case "json":
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(h.configManager.GetJSON())
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Invalid format. Use 'json' or 'yaml'")
	}
}
