package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{ name string }

var (
	loggerCtxKey = ctxKey{"logger"}
	passCtxKey   = ctxKey{"pass"}
)

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerCtxKey).(*zerolog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithFields returns a context whose logger carries fields.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	logger := FromContext(ctx).With().Fields(fields).Logger()
	return WithLogger(ctx, &logger)
}

// WithField is WithFields for one key.
func WithField(ctx context.Context, key string, value any) context.Context {
	return WithFields(ctx, map[string]any{key: value})
}

// WithPassID tags ctx and its logger with the id of a reconciliation pass.
func WithPassID(ctx context.Context, id string) context.Context {
	return WithField(context.WithValue(ctx, passCtxKey, id), "pass_id", id)
}

// PassID returns the pass id stored by WithPassID.
func PassID(ctx context.Context) string {
	id, _ := ctx.Value(passCtxKey).(string)
	return id
}

// WithSource tags the logger with the source being read.
func WithSource(ctx context.Context, source string) context.Context {
	return WithField(ctx, "source", source)
}

// WithSink tags the logger with the sink driver being written.
func WithSink(ctx context.Context, driver string) context.Context {
	return WithField(ctx, "sink", driver)
}
