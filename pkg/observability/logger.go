// Package observability provides the structured logger and the OpenTelemetry
// tracer bootstrap shared by the gateway binaries.
package observability

import (
	"log/slog"
	"os"
)

type Logger struct {
	*slog.Logger
}

// NewLogger returns a JSON slog logger tagged with the service name.
func NewLogger(serviceName string) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &Logger{slog.New(handler).With("service", serviceName)}
}
