// Package logging configures the process-wide slog logger and derives
// request- and attempt-scoped loggers from it.
//
// Every ingestion attempt is identified by an attempt_id and every HTTP
// request by a chi request id; loggers produced here carry those fields so
// the whole lifecycle of one upload can be stitched together from the log
// stream.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// levels maps the accepted LOG_LEVEL values. Anything unrecognized falls
// back to info rather than erroring; logging config should never stop the
// service.
var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Setup installs the global logger. Format "json" is for machine ingestion
// in production; anything else yields human-readable text for development.
// Every entry carries the service name so aggregated streams stay
// attributable.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler).With("service", "ingest"))
}

func parseLevel(level string) slog.Level {
	if l, ok := levels[strings.ToLower(level)]; ok {
		return l
	}
	return slog.LevelInfo
}

// FromContext returns the default logger enriched with the chi request id
// when the context carries one, so every entry for a request correlates.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}

	return logger
}

// WithFields returns a request-scoped logger with additional fields, for
// multi-step operations that should carry consistent context:
//
//	attemptLogger := logging.WithFields(ctx,
//	    "attempt_id", attemptID,
//	    "source", source,
//	)
//	attemptLogger.Info("ingestion started")
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
