package linklayer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeAssociatesOnReachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	l := New(Config{ServerURL: srv.URL, DeviceID: "t"})
	assert.False(t, l.Associated())
	assert.True(t, l.Probe(context.Background()))
	assert.True(t, l.Associated())
}

func TestProbeFailsOnUnreachableServer(t *testing.T) {
	l := New(Config{ServerURL: "http://127.0.0.1:1", DeviceID: "t"})
	assert.False(t, l.Probe(context.Background()))
	assert.False(t, l.Associated())
}

func TestProbeFailsOnMalformedURL(t *testing.T) {
	l := New(Config{ServerURL: "://not-a-url", DeviceID: "t"})
	assert.False(t, l.Probe(context.Background()))
}
