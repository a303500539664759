package domain

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// ContextWithLogger attaches a logger to ctx for downstream retrieval.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// LoggerFromContext returns the logger attached to ctx, or slog.Default()
// if none was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := ctx.Value(loggerContextKey)
	if logger == nil {
		return slog.Default()
	}
	return logger.(*slog.Logger)
}

const userContextKey contextKey = "user"

// ContextWithUserID attaches the requesting user's ID to ctx.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// UserIDFromContext returns the user ID attached to ctx, or "" if none.
func UserIDFromContext(ctx context.Context) string {
	userID := ctx.Value(userContextKey)
	if userID == nil {
		return ""
	}
	return userID.(string)
}

const requestIDContextKey contextKey = "request_id"

// ContextWithRequestID attaches a request ID to ctx for tracing.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

// RequestIDFromContext returns the request ID attached to ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id := ctx.Value(requestIDContextKey)
	if id == nil {
		return ""
	}
	return id.(string)
}
