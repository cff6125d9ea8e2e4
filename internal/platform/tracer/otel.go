package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName tags every span the verification engine emits.
const instrumentationName = "veripay/verify"

// OTelTracer bridges the engine's Tracer interface onto OpenTelemetry.
// Provider and exporter setup belong to the deployment; the adapter emits
// through whatever global provider is installed and stays a no-op when
// none is.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTel returns a tracer bound to the global provider.
func NewOTel() *OTelTracer {
	return NewOTelWith(otel.Tracer(instrumentationName))
}

// NewOTelWith wraps a specific OpenTelemetry tracer. Tests use it to
// capture spans through a recording provider.
func NewOTelWith(t trace.Tracer) *OTelTracer {
	return &OTelTracer{tracer: t}
}

// Start opens a child span and returns the context carrying it.
func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toOTelAttributes(attrs)...))
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

// End closes the span. A non-nil error marks the span failed and records
// the error on it.
func (s *otelSpan) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

func (s *otelSpan) SetAttributes(attrs ...Attribute) {
	s.span.SetAttributes(toOTelAttributes(attrs)...)
}

func (s *otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(toOTelAttributes(attrs)...))
}

// toOTelAttributes converts internal attributes to OpenTelemetry ones.
// Values of an unexpected type are stringified rather than dropped.
func toOTelAttributes(attrs []Attribute) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	result := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			result = append(result, attribute.String(a.Key, v))
		case bool:
			result = append(result, attribute.Bool(a.Key, v))
		case int64:
			result = append(result, attribute.Int64(a.Key, v))
		case int:
			result = append(result, attribute.Int64(a.Key, int64(v)))
		case float64:
			result = append(result, attribute.Float64(a.Key, v))
		default:
			result = append(result, attribute.String(a.Key, fmt.Sprintf("%v", v)))
		}
	}
	return result
}

var (
	_ Tracer = (*OTelTracer)(nil)
	_ Span   = (*otelSpan)(nil)
)
