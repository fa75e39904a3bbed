// Package logger constructs the application's structured logger.
package logger

import (
	"log/slog"
	"os"
)

// New returns the app logger writing JSON to stdout.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
