// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Context keys for logging.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	clientKey    contextKey = "client"
	loggerKey    contextKey = "logger"
)

// ClientFields identifies the Plex client a request came from.
type ClientFields struct {
	Identifier string
	Platform   string
	Product    string
}

// GenerateRequestID creates a new unique request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns a new context with the given request ID.
//
//	ctx = logging.ContextWithRequestID(ctx, requestID)
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithNewRequestID returns a context with a newly generated request ID.
func ContextWithNewRequestID(ctx context.Context) context.Context {
	return ContextWithRequestID(ctx, GenerateRequestID())
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if not present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithClient attaches client identification to every log line
// written through Ctx.
func ContextWithClient(ctx context.Context, client ClientFields) context.Context {
	return context.WithValue(ctx, clientKey, client)
}

// ClientFromContext returns the client stored by ContextWithClient.
func ClientFromContext(ctx context.Context) (ClientFields, bool) {
	client, ok := ctx.Value(clientKey).(ClientFields)
	return client, ok
}

// ContextWithLogger stores a logger in the context.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext retrieves a logger from context.
// Returns the global logger if no logger is stored in context.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger with request_id and client fields added.
// This is the recommended way to log in handlers and anything they call.
//
//	logging.Ctx(ctx).Info().Msg("Processing request")
//	// Output: {"level":"info","request_id":"uuid","client_id":"abc","platform":"Android","message":"Processing request"}
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := CtxWith(ctx).Logger()
	return &logger
}

// CtxWith returns a logger context builder with context values pre-populated.
//
//	logger := logging.CtxWith(ctx).Str("route", route).Logger()
func CtxWith(ctx context.Context) zerolog.Context {
	logger := LoggerFromContext(ctx)
	logCtx := logger.With()

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}

	if client, ok := ClientFromContext(ctx); ok {
		if client.Identifier != "" {
			logCtx = logCtx.Str("client_id", client.Identifier)
		}
		if client.Platform != "" {
			logCtx = logCtx.Str("platform", client.Platform)
		}
		if client.Product != "" {
			logCtx = logCtx.Str("product", client.Product)
		}
	}

	return logCtx
}

// CtxDebug starts a debug level message with context fields.
func CtxDebug(ctx context.Context) *zerolog.Event {
	return Ctx(ctx).Debug()
}

// CtxInfo starts an info level message with context fields.
func CtxInfo(ctx context.Context) *zerolog.Event {
	return Ctx(ctx).Info()
}

// CtxWarn starts a warn level message with context fields.
func CtxWarn(ctx context.Context) *zerolog.Event {
	return Ctx(ctx).Warn()
}

// CtxErr starts an error level message with context fields and the error.
func CtxErr(ctx context.Context, err error) *zerolog.Event {
	return Ctx(ctx).Err(err)
}

// WithComponent creates a child logger with a component field.
//
//	janitor := logging.WithComponent("cache-janitor")
//	janitor.Info().Msg("Sweep finished")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
