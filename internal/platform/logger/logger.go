package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. JSON to stdout so log
// shippers get one parseable line per event.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
