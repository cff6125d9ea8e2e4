package tracer

import "context"

// NoopTracer discards every span. It is the engine's default tracer, so
// callers can emit spans unconditionally whether or not tracing is on.
type NoopTracer struct{}

// NewNoop returns the discarding tracer.
func NewNoop() *NoopTracer {
	return &NoopTracer{}
}

// Start returns the context untouched and a span that swallows all calls.
func (t *NoopTracer) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error)                     {}
func (noopSpan) SetAttributes(...Attribute)    {}
func (noopSpan) AddEvent(string, ...Attribute) {}

var (
	_ Tracer = (*NoopTracer)(nil)
	_ Span   = noopSpan{}
)
