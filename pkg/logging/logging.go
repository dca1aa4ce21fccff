// Package logging builds the process logger: colored tint output for
// terminals, or JSON lines when the server runs behind a log collector.
// Every record carries the service name.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ServiceName is attached to every record as "service".
const ServiceName = "messmate"

// Options controls the handler built by New. Zero values give INFO level
// tint output.
type Options struct {
	Level  string // LOG_LEVEL: debug, info, warn, error
	Format string // LOG_FORMAT: text or json
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)
	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			AddSource:  level == slog.LevelDebug,
			NoColor:    opts.Format == "plain",
		})
	}
	return slog.New(h).With("service", ServiceName)
}

// Setup installs New(w, opts) as the slog default.
func Setup(w io.Writer, opts Options) {
	slog.SetDefault(New(w, opts))
}

// ParseLevel maps a level name to a slog.Level. Unknown names give INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
