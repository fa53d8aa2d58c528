// Package metrics holds the Prometheus instrumentation for the beacon
// process. It mirrors the shape of the teacher's metrics package (a
// promauto-built struct behind a sync.Once singleton) but the metric set is
// rebuilt around the spec's own Counters (§3) and task model (§5) rather
// than an HTTP API's request/cache/database metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus instruments for the beacon.
type Metrics struct {
	// Capture (C1)
	SamplesProcessedTotal prometheus.Counter
	WindowsAcquiredTotal  prometheus.Counter
	WindowsDroppedTotal   prometheus.Counter // queue-overflow drops, spec §4.4

	// DSP (C2)
	NoiseDiscardsTotal prometheus.Counter
	Confidence         prometheus.Histogram
	DSPDuration        prometheus.Histogram

	// Transport (C3)
	TransmissionsSentTotal prometheus.Counter
	TransmissionErrorsTotal *prometheus.CounterVec // labeled by apierr.Code
	TransportDuration      prometheus.Histogram

	// Pipeline Supervisor (C4)
	StateTransitionsTotal *prometheus.CounterVec // labeled by from/to state
	CurrentState          *prometheus.GaugeVec   // one gauge per state, 1 for active

	// Link layer
	NetworkAssociated prometheus.Gauge
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics. Safe to call
// more than once; only the first call registers anything.
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			SamplesProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "beacon_samples_processed_total",
				Help: "Total number of PCM samples acquired by the audio source.",
			}),
			WindowsAcquiredTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "beacon_windows_acquired_total",
				Help: "Total number of AudioWindows completed by acquire_window().",
			}),
			WindowsDroppedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "beacon_windows_dropped_total",
				Help: "Total number of windows dropped because the single-slot queue was full.",
			}),
			NoiseDiscardsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "beacon_noise_discards_total",
				Help: "Total number of windows discarded by the noise gate before DSP.",
			}),
			Confidence: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "beacon_fingerprint_confidence",
				Help:    "Distribution of fingerprint confidence scores, including below-threshold ones.",
				Buckets: []float64{0, 0.1, 0.2, 0.3, 0.5, 0.7, 0.9, 1.0},
			}),
			DSPDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "beacon_dsp_duration_seconds",
				Help:    "Time to run one AudioWindow through the DSP pipeline.",
				Buckets: prometheus.DefBuckets,
			}),
			TransmissionsSentTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "beacon_transmissions_sent_total",
				Help: "Total number of fingerprints accepted by the server (200/201).",
			}),
			TransmissionErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "beacon_transmission_errors_total",
				Help: "Total number of failed publish attempts, labeled by failure code.",
			}, []string{"code"}),
			TransportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "beacon_transport_duration_seconds",
				Help:    "Time spent in the transport POST call, including failures.",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			}),
			StateTransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "beacon_state_transitions_total",
				Help: "Total number of SystemState transitions, labeled by from/to.",
			}, []string{"from", "to"}),
			CurrentState: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Name: "beacon_current_state",
				Help: "1 for the currently active SystemState, 0 otherwise.",
			}, []string{"state"}),
			NetworkAssociated: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "beacon_network_associated",
				Help: "1 if the link layer reports the network as associated, 0 otherwise.",
			}),
		}
	})
	return instance
}

// Get returns the global metrics instance, initializing it on first use.
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
