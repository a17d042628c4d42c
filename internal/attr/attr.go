// Package attr provides slog attribute helpers shared by all services.
package attr

import (
	"context"
	"log/slog"
	"time"
)

type correlationIDKey struct{}

// String returns a string attribute.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int returns an int attribute.
func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

// Int64 returns an int64 attribute.
func Int64(key string, value int64) slog.Attr {
	return slog.Int64(key, value)
}

// Float64 returns a float64 attribute.
func Float64(key string, value float64) slog.Attr {
	return slog.Float64(key, value)
}

// Duration returns a duration attribute.
func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}

// Any returns an attribute for an arbitrary value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Error returns the conventional "error" attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// WithCorrelationID stores a correlation ID on the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the raw correlation ID, or "" when none
// was set.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ExtractCorrelationID returns the correlation ID attribute from the context,
// or an empty attribute when none was set.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok && id != "" {
		return slog.String("correlation_id", id)
	}
	return slog.String("correlation_id", "")
}
