package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// WithNewRunID tags the context with a fresh UUID v4 used as trace_id for
// every log line of the run
func WithNewRunID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return WithTraceID(ctx, id), id
}

// WithComponent creates a logger with a component field
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// WithError creates a logger with an error field
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With("error", err.Error())
}
