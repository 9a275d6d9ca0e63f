package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// WithTracer attaches t to ctx; a nil t attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// SpanContext identifies the span new spans should be parented to.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

// WithSpanContext attaches sc to ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	return context.WithValue(ctx, spanKey{}, sc)
}

// CurrentSpan returns the span attached to ctx, or the zero SpanContext.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanKey{}).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{}
}

// StartSpan begins a span under the span carried by ctx and returns a
// context in which it is current. Spans that are filtered out by the level
// leave ctx untouched, so their children attach to the nearest recorded
// ancestor.
func StartSpan(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if span.ID() == 0 {
		return ctx, span
	}
	return WithSpanContext(ctx, SpanContext{SpanID: span.ID(), GID: span.gid}), span
}
