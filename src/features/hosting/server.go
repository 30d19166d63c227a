package hosting

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/contre95/songbook/src/features/config"
	"github.com/contre95/songbook/src/features/metrics"
	"github.com/contre95/songbook/src/features/songs"
	"github.com/contre95/songbook/src/features/ui"
	"github.com/contre95/songbook/src/songbook"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
)

// storageDetail is the only thing a client learns about a storage failure.
const storageDetail = "Error de conexión a la base de datos"

//go:embed views
var viewsFS embed.FS

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server. metricsManager may be nil when metrics are disabled.
func NewServer(cfg *config.Manager, songsService *songs.Service, metricsManager *metrics.Manager) *Server {
	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(views), ".html")
	engine.Debug(cfg.Get().Logger.Level == "debug")
	engine.AddFunc("cell", func(v any) string {
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})

	app := fiber.New(fiber.Config{
		Views:                 engine,
		ErrorHandler:          ErrorHandler,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		AppName:               "Songbook",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	// Add middleware. The request log resolves errors, so metrics sit outside
	// it and only read the final status.
	app.Use(RequestIDMiddleware())
	if metricsManager != nil {
		app.Use(metrics.Middleware(metricsManager))
	}
	app.Use(LogAllRequestsMiddleware())
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		if err := songsService.Ready(c.UserContext()); err != nil {
			slog.Error("Readiness check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"detail": storageDetail})
		}
		return c.SendString("OK")
	})

	uiHandler := ui.NewHandler(cfg)

	ui.RegisterRoutes(app, uiHandler)
	config.RegisterRoutes(app, cfg)
	songs.RegisterRoutes(app, songsService)
	if metricsManager != nil {
		metrics.RegisterRoutes(app, metricsManager, cfg.Get().Metrics.Path)
	}

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// ErrorHandler maps handler errors to a status and a {"detail": ...} body.
// Storage causes are logged and never sent to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		invalidField *songbook.InvalidFieldError
		malformed    *songbook.MalformedFilterError
		fiberErr     *fiber.Error
	)

	status := fiber.StatusInternalServerError
	detail := "Internal Server Error"
	switch {
	case errors.As(err, &invalidField):
		status, detail = fiber.StatusBadRequest, invalidField.Error()
	case errors.As(err, &malformed):
		status, detail = fiber.StatusBadRequest, malformed.Error()
	case errors.Is(err, songbook.ErrStorageUnavailable):
		slog.Error("Storage unavailable", "path", c.Path(), "error", err)
		detail = storageDetail
	case errors.As(err, &fiberErr):
		status, detail = fiberErr.Code, fiberErr.Message
	default:
		slog.Error("Internal Server Error", "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
