package logger

import (
	"log/slog"
	"os"
)

// New returns the shared structured logger. JSON output keeps log lines
// machine-parseable in the hosting environment.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
