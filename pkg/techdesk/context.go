package techdesk

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey string

const (
	loggerKey ctxKey = "techdesk.logger"
	reqIDKey  ctxKey = "techdesk.request_id"
)

// WithLogger stores a slog.Logger in the context.
//
// The logger is used by LogInfo, LogDebug and LogWarn, and by Error.Log. If
// no logger is set, slog.Default() is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	ctx = techdesk.WithLogger(ctx, logger)
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger retrieves the slog.Logger from context.
//
// Returns slog.Default() if no logger is found.
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithReqID stores a request ID in the context.
//
// The request ID is unique per user query and correlates all log lines and
// errors produced while answering it.
func WithReqID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, reqIDKey, requestID)
}

// NewReqID returns a context carrying a freshly generated request ID.
func NewReqID(ctx context.Context) context.Context {
	return WithReqID(ctx, uuid.NewString())
}

// ReqID retrieves the request ID from context.
//
// Returns empty string if none is set.
func ReqID(ctx context.Context) string {
	if id, ok := ctx.Value(reqIDKey).(string); ok {
		return id
	}
	return ""
}
