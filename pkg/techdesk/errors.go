// Package techdesk provides the shared error taxonomy, context utilities,
// and logging helpers used across the retrieval-and-answer pipeline.
//
// Every failure the pipeline can degrade around is represented by a sentinel
// error here so callers can branch with errors.Is instead of string matching.
package techdesk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors for the pipeline failure taxonomy.
//
// Wrap these with fmt.Errorf("...: %w", ...) at the failure site and match
// them with errors.Is at the degradation boundaries.
var (
	// ErrInvalidConfiguration indicates bad caller-supplied parameters,
	// e.g. a chunk overlap that is not smaller than the chunk size.
	// Fatal to the call, never retried.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrStoreUnavailable indicates the vector index backend is unreachable.
	// Retrieval treats it as "no results", never as a user-facing failure.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service call failed.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the text generation service call
	// failed. Surfaced to users as a fixed apologetic message.
	ErrGenerationUnavailable = errors.New("generation service unavailable")
)

// Error is a context-aware error that carries metadata for structured logging.
//
// It implements the standard error interface and supports Go's error wrapping
// (errors.Is, errors.As, errors.Unwrap). Metadata includes the request ID and
// arbitrary tags as slog.Attr.
//
// Example:
//
//	err := techdesk.WrapErr(ctx, originalErr, "dense search failed")
//	err.Tag(slog.String("domain", domain))
//	return err
type Error struct {
	msg       string
	cause     error
	requestID string
	attrs     []slog.Attr
}

// WrapErr wraps an existing error with context metadata.
//
// The request ID is extracted from context automatically. Use Tag() to add
// additional metadata.
func WrapErr(ctx context.Context, err error, msg string) *Error {
	return &Error{
		msg:       msg,
		cause:     err,
		requestID: ReqID(ctx),
		attrs:     make([]slog.Attr, 0),
	}
}

// NewErr creates a new error with context metadata and no underlying cause.
func NewErr(ctx context.Context, msg string) *Error {
	return &Error{
		msg:       msg,
		cause:     nil,
		requestID: ReqID(ctx),
		attrs:     make([]slog.Attr, 0),
	}
}

// Tag adds a slog.Attr to the error for structured logging.
//
// Returns the error for fluent chaining.
func (e *Error) Tag(attr slog.Attr) *Error {
	e.attrs = append(e.attrs, attr)
	return e
}

// Tags adds multiple slog.Attr to the error.
func (e *Error) Tags(attrs ...slog.Attr) *Error {
	e.attrs = append(e.attrs, attrs...)
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// RequestID returns the request ID associated with this error.
func (e *Error) RequestID() string {
	return e.requestID
}

// Message returns the error message without the cause.
func (e *Error) Message() string {
	return e.msg
}

// Attrs returns the slog attributes associated with this error.
func (e *Error) Attrs() []slog.Attr {
	return e.attrs
}

// LogAttrs returns all attributes including the cause and request_id.
//
// Useful for logging the error with all its metadata in one call.
func (e *Error) LogAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)
	if e.cause != nil {
		attrs = append(attrs, slog.Any("error", e.cause))
	}
	if e.requestID != "" {
		attrs = append(attrs, slog.String("request_id", e.requestID))
	}
	attrs = append(attrs, e.attrs...)
	return attrs
}

// Log logs this error at error level with all metadata.
//
// Uses the logger from context or slog.Default().
func (e *Error) Log(ctx context.Context) {
	e.log(ctx, slog.LevelError)
}

// LogWarn logs this error at warn level. Used for failures the caller
// degrades around instead of surfacing.
func (e *Error) LogWarn(ctx context.Context) {
	e.log(ctx, slog.LevelWarn)
}

func (e *Error) log(ctx context.Context, level slog.Level) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, level) {
		return
	}
	logger.LogAttrs(ctx, level, e.msg, e.LogAttrs()...)
}
