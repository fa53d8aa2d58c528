package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ExternalCallAttrs describes the one external call this device makes: a
// fingerprint publish to the aggregation server (spec §4.3).
type ExternalCallAttrs struct {
	Operation string // e.g. "publish_fingerprint"
	Hash      string
}

// TraceExternalCall starts a client-kind span around the transport POST.
// Grounded on the teacher's TraceExternalCall, narrowed to the single
// external dependency a measurement endpoint has: its own aggregation
// server.
func TraceExternalCall(ctx context.Context, attrs ExternalCallAttrs) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, "transport."+attrs.Operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("beacon.operation", attrs.Operation),
			attribute.String("beacon.fingerprint_hash", attrs.Hash),
		),
	)
	return ctx, span
}

// RecordCallError annotates the span with the outcome of the call.
func RecordCallError(span trace.Span, err error, statusCode int) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	if statusCode > 0 {
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}
