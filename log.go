package components

import (
	"context"
	"log/slog"
)

type loggerCtxKey struct{}

// LoggingContext returns a copy of ctx that carries logger. Engines log
// through the logger in the context they render with, and log nothing if
// there isn't one.
func LoggingContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

func logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerCtxKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.New(noopHandler{})
}

// warnUnexpectedSlots logs the slots a call site filled that the component's
// template never declared.
func warnUnexpectedSlots(ctx context.Context, component, template string, slots []string) {
	logger(ctx).WarnContext(ctx, "component was passed slots its template doesn't declare",
		"component", component,
		"template", template,
		"slots", slots,
	)
}

// noopHandler discards everything, standing in when no logger was supplied.
type noopHandler struct{}

func (noopHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (noopHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (n noopHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return n
}

func (n noopHandler) WithGroup(_ string) slog.Handler {
	return n
}
