package components

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "impractical.co/components"

// WithTracerProvider makes the Engine start its spans from provider instead
// of the global TracerProvider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(e *Engine) error {
		e.tracer = provider.Tracer(tracerName)
		return nil
	}
}

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
