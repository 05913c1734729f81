// Package logging configures the process wide slog logger and adapts it for
// the standard library log package and gorm.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

const moduleName = "cookbook"

// Options control the logger built by New.
type Options struct {
	Level   string
	Format  string // json or text
	Version string
	Writer  io.Writer
}

// ParseLevel maps a level name onto slog.Level, defaulting to INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a structured logger carrying module and version attributes.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := ParseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var h slog.Handler
	if opts.Format == "text" {
		h = slog.NewTextHandler(w, handlerOpts)
	} else {
		h = slog.NewJSONHandler(w, handlerOpts)
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return slog.New(h).With("module", moduleName, "version", version)
}

// SetDefault installs logger as the slog default and routes the standard
// library log package through it.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(logger.Handler(), slog.LevelInfo).Writer())
}
