// Package logging builds the process logger. Every handler is wrapped so that records
// logged with a request or connection context carry correlation_id and conn_id.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/saisujan42/Live-Polling-System/internal/platform/correlation"
)

// Logger is the application-wide structured logger instance.
var Logger *slog.Logger

// NewLogger writes to w at the given level ("debug", "info", "warn", "error"; anything
// else is info) in "json" or "text" format.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(correlation.NewHandler(handler))
}

// InitLogger installs a stdout logger as the slog default.
func InitLogger(level, format string) {
	Logger = NewLogger(os.Stdout, level, format)
	slog.SetDefault(Logger)
}
