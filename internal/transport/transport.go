// Package transport implements C3: serializing a Fingerprint and POSTing
// it to the aggregation server, with the failure taxonomy and timeout
// budget of spec §4.3. Grounded on cli/pkg/client/client.go's resty setup
// (base URL, timeout, before/after hooks used for logging) — adapted from
// an auth-token-bearing CLI client to a single-endpoint, unauthenticated
// device publisher.
package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/meterbox/beacon/internal/apierr"
	"github.com/meterbox/beacon/internal/config"
	"github.com/meterbox/beacon/internal/dsp"
	"github.com/meterbox/beacon/internal/linklayer"
	"github.com/meterbox/beacon/internal/logger"
	"github.com/meterbox/beacon/internal/metrics"
	"github.com/meterbox/beacon/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// totalTimeout is the spec §4.3 "10-second total timeout" for the POST.
const totalTimeout = 10 * time.Second

// wireFingerprint is the JSON body posted to the server (spec §6's wire
// contract, §3's Fingerprint attributes).
type wireFingerprint struct {
	DeviceID     string  `json:"device_id"`
	Timestamp    int64   `json:"timestamp"`
	Hash         string  `json:"hash"`
	Confidence   float64 `json:"confidence"`
	Duration     int     `json:"duration"`
	Features     string  `json:"features"`
	SampleRate   int     `json:"sample_rate"`
	QualityLevel int     `json:"quality_level"`
}

// Publisher posts fingerprints to the aggregation server.
type Publisher struct {
	client *resty.Client
	link   *linklayer.Link
}

// New builds a Publisher bound to link's server URL. The underlying HTTP
// transport is wrapped with otelhttp so the POST's outbound span carries
// the standard HTTP client attributes (method, status, peer), the same
// instrumentation the teacher's own http_client.go wraps its stdlib
// *http.Client with — adapted here to resty's pluggable Transport instead
// of a bare http.Client.
func New(link *linklayer.Link) *Publisher {
	c := resty.New()
	c.SetBaseURL(link.ServerURL())
	c.SetTimeout(totalTimeout)
	c.SetHeader("Content-Type", "application/json")
	c.SetTransport(otelhttp.NewTransport(http.DefaultTransport))

	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logger.DebugWithFields("transport request", zap.String("url", req.URL))
		return nil
	})

	return &Publisher{client: c, link: link}
}

// Publish sends fp to the server. Returns an *apierr.Error classified per
// spec §4.3's failure taxonomy on any non-success outcome.
func (p *Publisher) Publish(ctx context.Context, fp dsp.Fingerprint, cfg config.AudioConfig) error {
	if !p.link.Associated() {
		return apierr.NotReady()
	}

	ctx, span := telemetry.TraceExternalCall(ctx, telemetry.ExternalCallAttrs{
		Operation: "publish_fingerprint",
		Hash:      fp.Hash,
	})
	defer span.End()

	start := time.Now()
	body := wireFingerprint{
		DeviceID:     p.link.DeviceID(),
		Timestamp:    fp.Timestamp / 1000,
		Hash:         fp.Hash,
		Confidence:   fp.Confidence,
		Duration:     cfg.CaptureDuration,
		Features:     fp.Payload,
		SampleRate:   cfg.SampleRate,
		QualityLevel: cfg.QualityLevel,
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("")

	metrics.Get().TransportDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		classified := classifyTransportError(ctx, err)
		telemetry.RecordCallError(span, classified, 0)
		metrics.Get().TransmissionErrorsTotal.WithLabelValues(string(classified.Code)).Inc()
		return classified
	}

	status := resp.StatusCode()
	if status != 200 && status != 201 {
		classified := apierr.ServerError(status)
		telemetry.RecordCallError(span, classified, status)
		metrics.Get().TransmissionErrorsTotal.WithLabelValues(string(apierr.CodeServerError)).Inc()
		return classified
	}

	metrics.Get().TransmissionsSentTotal.Inc()
	telemetry.RecordCallError(span, nil, status)
	return nil
}

func classifyTransportError(ctx context.Context, err error) *apierr.Error {
	if ctx.Err() != nil {
		return apierr.Timeout(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierr.Timeout(err)
	}
	return apierr.TransportError(err)
}
