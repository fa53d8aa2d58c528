// Package linklayer owns the beacon's network association: loading the
// build-time link configuration (SSID/PSK placeholders, server URL,
// device_id — spec §6) and reporting whether the device currently has a
// usable path to the aggregation server. Grounded on the teacher's
// internal/cache/redis.go connect-and-ping shape (construct client, ping
// with a short timeout, treat failure as "not associated" rather than
// fatal) reused here for an HTTP reachability probe instead of a Redis
// connection.
package linklayer

import (
	"context"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/meterbox/beacon/internal/logger"
	"github.com/meterbox/beacon/internal/metrics"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the build-time link-layer configuration (spec §6: "Network
// SSID/PSK, server URL, and device_id are build-time constants"). Modeled
// as a YAML file here rather than compiled constants so it is inspectable
// and overridable in this environment without a firmware rebuild.
type Config struct {
	SSID      string `yaml:"ssid"`
	PSK       string `yaml:"psk"`
	ServerURL string `yaml:"server_url"`
	DeviceID  string `yaml:"device_id"`
}

// LoadConfig reads the link-layer config from path, applying BEACON_SSID,
// BEACON_PSK, BEACON_SERVER_URL, BEACON_DEVICE_ID environment overrides
// on top (useful for running many simulated devices off one file).
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		SSID:      "beacon-net",
		PSK:       "",
		ServerURL: "https://collector.example.invalid/v1/fingerprints",
		DeviceID:  "beacon-dev",
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}
	if v := os.Getenv("BEACON_SSID"); v != "" {
		cfg.SSID = v
	}
	if v := os.Getenv("BEACON_PSK"); v != "" {
		cfg.PSK = v
	}
	if v := os.Getenv("BEACON_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("BEACON_DEVICE_ID"); v != "" {
		cfg.DeviceID = v
	}
	return cfg, nil
}

// Link tracks network association state and periodically re-probes it.
// associated is written by Probe from both the capture-loop and time-sync
// goroutines and read by Associated from the processing goroutine, so it
// is an atomic.Bool rather than a plain bool — the same snapshot-over-mutex
// choice the config store makes for its own cross-goroutine state.
type Link struct {
	cfg        Config
	client     *http.Client
	associated atomic.Bool
}

// New constructs a Link against cfg. The probe sends an HTTP HEAD to the
// configured server URL (the fingerprint endpoint itself) and counts any
// HTTP response, whatever its status, as associated; only a request or
// connection failure marks the link down.
func New(cfg Config) *Link {
	return &Link{
		cfg: cfg,
		client: &http.Client{
			Timeout: 3 * time.Second,
		},
	}
}

// Probe checks reachability of the server and updates association state.
// Failures here are never fatal (spec §4.3's NotReady precondition, not
// §7's fatal hardware error) — they just mean Connecting doesn't advance.
func (l *Link) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, l.cfg.ServerURL, nil)
	if err != nil {
		logger.WarnWithFields("link probe: bad server URL", err)
		l.setAssociated(false)
		return false
	}
	resp, err := l.client.Do(req)
	if err != nil {
		logger.DebugWithFields("link probe failed", zap.Error(err))
		l.setAssociated(false)
		return false
	}
	_ = resp.Body.Close()
	l.setAssociated(true)
	return true
}

func (l *Link) setAssociated(v bool) {
	if l.associated.Swap(v) != v {
		logger.InfoWithFields("link association changed", zap.Bool("associated", v))
	}
	g := 0.0
	if v {
		g = 1.0
	}
	metrics.Get().NetworkAssociated.Set(g)
}

// Associated reports the last-known association state without probing.
func (l *Link) Associated() bool {
	return l.associated.Load()
}

// ServerURL returns the configured fingerprint-collector endpoint.
func (l *Link) ServerURL() string { return l.cfg.ServerURL }

// DeviceID returns the configured device identifier.
func (l *Link) DeviceID() string { return l.cfg.DeviceID }
