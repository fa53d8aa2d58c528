// Package telemetry wires a minimal OpenTelemetry tracer around the
// beacon's one external call (the transport POST in internal/transport).
// Grounded on the teacher's internal/telemetry/tracer.go, trimmed down: the
// device has no OTLP collector to ship to in the field, so the provider
// runs without any exporter. Spans are created around the transport POST
// and carry context into the outbound HTTP request, but they are not
// exported anywhere and log lines do not include their trace/span IDs.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Config holds tracer configuration.
type Config struct {
	ServiceName string
	DeviceID    string
	Enabled     bool
}

// InitTracer installs a process-wide TracerProvider. When cfg.Enabled is
// false it installs nothing and returns a nil provider; otel's default
// global provider, a no-op, then stays in place so Tracer() still works.
func InitTracer(cfg Config) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("device.id", cfg.DeviceID),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return tp, nil
}

// Tracer returns the beacon's named tracer.
func Tracer() trace.Tracer {
	return otel.Tracer("github.com/meterbox/beacon")
}
