package otel

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type SpanIDs struct {
	TraceID string
	SpanID  string
}

// CurrentSpan returns the ids of the span active in ctx. It reports false when
// no tracing SDK is installed or the context carries no valid span.
func CurrentSpan(ctx context.Context) (SpanIDs, bool) {
	if ctx == nil {
		return SpanIDs{}, false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return SpanIDs{}, false
	}
	return SpanIDs{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}, true
}
