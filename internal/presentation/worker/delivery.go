// Package workerpresentation prepares the context an event handler runs in.
package workerpresentation

import (
	"context"

	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability/logctx"
	"go.opentelemetry.io/otel/trace"
)

// Delivery is one hand-off of a published event to one subscriber.
type Delivery struct {
	Event   string
	EventID string
	// Span is the publisher's span; handlers continue its trace.
	Span trace.SpanContext
}

// Fields returns the log fields identifying d. Trace ids are omitted when the
// publisher had no span.
func (d Delivery) Fields() []observability.Field {
	fields := []observability.Field{
		observability.F("event", d.Event),
		observability.F("event_id", d.EventID),
	}
	if d.Span.HasTraceID() {
		fields = append(fields, observability.F("trace_id", d.Span.TraceID().String()))
	}
	if d.Span.HasSpanID() {
		fields = append(fields, observability.F("span_id", d.Span.SpanID().String()))
	}
	return fields
}

// Context links ctx to the publisher's trace and binds a delivery-scoped logger
// derived from base.
func (d Delivery) Context(ctx context.Context, base observability.Logger) context.Context {
	if base == nil {
		base = observability.NopLogger()
	}
	if d.Span.IsValid() {
		ctx = trace.ContextWithRemoteSpanContext(ctx, d.Span)
	}
	return logctx.With(ctx, base.With(d.Fields()...))
}
