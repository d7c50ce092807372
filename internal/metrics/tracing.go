package metrics

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// logExporter writes finished spans to the application log
type logExporter struct {
	logger *logrus.Logger
}

func (e *logExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := logrus.Fields{
			"span":        span.Name(),
			"trace_id":    span.SpanContext().TraceID().String(),
			"duration_ms": span.EndTime().Sub(span.StartTime()).Milliseconds(),
			"status":      span.Status().Code.String(),
		}
		for _, attr := range span.Attributes() {
			fields[string(attr.Key)] = attr.Value.Emit()
		}
		e.logger.WithFields(fields).Debug("Span finished")
	}
	return nil
}

func (e *logExporter) Shutdown(ctx context.Context) error {
	return nil
}

// SetupTracing installs a global tracer provider that logs spans at debug
// level. The returned function flushes and stops it.
func SetupTracing(logger *logrus.Logger) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(&logExporter{logger: logger}),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
