package techdesk

import (
	"context"
	"log/slog"
)

// LogInfo logs an info-level message with context metadata.
//
// Automatically appends request_id from context if present. Uses the logger
// from context, or slog.Default() if not set.
//
// Example:
//
//	techdesk.LogInfo(ctx, "retrieval complete", "tier", "dense", "hits", 3)
func LogInfo(ctx context.Context, msg string, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelInfo) {
		return
	}
	args = appendContextFields(ctx, args)
	logger.InfoContext(ctx, msg, args...)
}

// LogDebug logs a debug-level message with context metadata.
func LogDebug(ctx context.Context, msg string, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	args = appendContextFields(ctx, args)
	logger.DebugContext(ctx, msg, args...)
}

// LogWarn logs a warning-level message with context metadata.
func LogWarn(ctx context.Context, msg string, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelWarn) {
		return
	}
	args = appendContextFields(ctx, args)
	logger.WarnContext(ctx, msg, args...)
}

// appendContextFields adds request_id to args if present in context.
func appendContextFields(ctx context.Context, args []any) []any {
	if reqID := ReqID(ctx); reqID != "" {
		args = append(args, "request_id", reqID)
	}
	return args
}
