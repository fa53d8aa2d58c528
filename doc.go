// Package beacon provides the audience-measurement sensor process.

// The executable entry point lives in cmd/beacon; this file only
// documents how the supporting packages fit together:

// - internal/audioio: C1, audio capture (synthetic tone and looping WAV sources)
// - internal/dsp: C2, the noise-gate/pre-emphasis/FFT/mel-band fingerprint pipeline
// - internal/transport: C3, the HTTPS fingerprint publisher and its failure taxonomy
// - internal/pipeline: C4, the lifecycle state machine and capture/processing supervisor
// - internal/config: C5, the editable AudioConfig, presets, and its NVS-style store
// - internal/hmi: C6, the two-button/OLED operator interface
// - internal/linklayer: network association and time sync
// - internal/logger: structured logging shared by every task
// - internal/metrics: Prometheus instrumentation
// - internal/telemetry: OpenTelemetry tracing for the one external call
// - internal/apierr: the transport/config error taxonomy

// See the individual package documentation for detailed reference.
package beacon
