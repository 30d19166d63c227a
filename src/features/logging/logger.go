package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/contre95/songbook/src/features/config"
)

// Logger is the slog front-end together with the charm handler behind it,
// kept so the level can follow configuration reloads.
type Logger struct {
	*slog.Logger
	handler *log.Logger
}

// SetupLogger builds the application logger from the logger section of the config.
func SetupLogger(cfg *config.Manager) *Logger {
	return newLogger(os.Stderr, cfg.Get().Logger)
}

func newLogger(w io.Writer, cfg config.Logger) *Logger {
	var formatter log.Formatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "text":
		formatter = log.TextFormatter
	default:
		formatter = log.LogfmtFormatter
	}

	if !cfg.Enabled {
		w = io.Discard
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "Songbook",
		Formatter:       formatter,
		Level:           parseLevel(cfg.Level),
	})

	logger := &Logger{Logger: slog.New(handler), handler: handler}
	logger.Info("Logger initialized", "time", time.Now().Format(time.RFC3339))
	return logger
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level string) {
	l.handler.SetLevel(parseLevel(level))
}

// Reconfigure applies the parts of a reloaded config that can change without a restart.
func (l *Logger) Reconfigure(cfg *config.Config) {
	l.SetLevel(cfg.Logger.Level)
	l.Debug("Logger level applied", "level", cfg.Logger.Level)
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
