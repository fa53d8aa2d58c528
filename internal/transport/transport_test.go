package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meterbox/beacon/internal/apierr"
	"github.com/meterbox/beacon/internal/config"
	"github.com/meterbox/beacon/internal/dsp"
	"github.com/meterbox/beacon/internal/linklayer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkTo(t *testing.T, url string, associated bool) *linklayer.Link {
	t.Helper()
	l := linklayer.New(linklayer.Config{ServerURL: url, DeviceID: "beacon-test"})
	if associated {
		ok := l.Probe(context.Background())
		require.True(t, ok)
	}
	return l
}

func TestPublishSuccessOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	link := linkTo(t, srv.URL, true)
	p := New(link)

	fp := dsp.Fingerprint{Hash: "abc123", Confidence: 0.5, Timestamp: time.Now().UnixNano()}
	err := p.Publish(context.Background(), fp, config.Default)
	assert.NoError(t, err)
}

func TestPublishBodyMatchesWireContract(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	link := linkTo(t, srv.URL, true)
	p := New(link)

	fp := dsp.Fingerprint{Hash: "abc123", Confidence: 0.5, Payload: "ZmVhdHVyZXM=", Timestamp: time.Now().UnixNano()}
	err := p.Publish(context.Background(), fp, config.Default)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"device_id", "timestamp", "hash", "confidence", "duration",
		"features", "sample_rate", "quality_level",
	}, keysOf(body))
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestPublishServerErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	link := linkTo(t, srv.URL, true)
	p := New(link)

	fp := dsp.Fingerprint{Hash: "abc123", Confidence: 0.5}
	err := p.Publish(context.Background(), fp, config.Default)

	require.Error(t, err)
	code, ok := apierr.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, apierr.CodeServerError, code)
}

func TestPublishNotReadyWhenLinkDown(t *testing.T) {
	link := linklayer.New(linklayer.Config{ServerURL: "https://127.0.0.1:1", DeviceID: "beacon-test"})
	p := New(link)

	fp := dsp.Fingerprint{Hash: "abc123", Confidence: 0.5}
	err := p.Publish(context.Background(), fp, config.Default)

	require.Error(t, err)
	code, ok := apierr.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, apierr.CodeNotReady, code)
}
