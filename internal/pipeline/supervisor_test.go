package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meterbox/beacon/internal/audioio"
	"github.com/meterbox/beacon/internal/config"
	"github.com/meterbox/beacon/internal/linklayer"
	"github.com/meterbox/beacon/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSupervisor(t *testing.T, serverURL string, source audioio.Source) (*Supervisor, *config.Store) {
	t.Helper()
	store := config.NewStore(t.TempDir())
	require.NoError(t, store.ApplyPreset(3))
	require.NoError(t, store.Set(config.FieldCaptureDuration, 1))
	require.NoError(t, store.Set(config.FieldCaptureInterval, 0))

	link := linklayer.New(linklayer.Config{ServerURL: serverURL, DeviceID: "beacon-test"})
	pub := transport.New(link)
	sup := New(source, store, link, pub)
	return sup, store
}

func TestSilentRoomProducesNoTransmission(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	source := audioio.NewToneSource(0, 0)
	sup, _ := newTestSupervisor(t, srv.URL, source)

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	_ = sup.Run(ctx)

	assert.Equal(t, int64(0), sup.Counters().TransmissionsSent.Load())
	assert.Greater(t, sup.Counters().SamplesProcessed.Load(), int64(0))
}

func TestSteadyToneTransmitsOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	source := audioio.NewToneSource(1000, 0.3)
	sup, _ := newTestSupervisor(t, srv.URL, source)

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	_ = sup.Run(ctx)

	assert.GreaterOrEqual(t, sup.Counters().TransmissionsSent.Load(), int64(1))
}

func TestNetworkDropEntersErrorState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	source := audioio.NewToneSource(1000, 0.3)
	sup, _ := newTestSupervisor(t, srv.URL, source)

	changes := sup.Broadcaster().Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	go sup.Run(ctx)

	sawError := false
	for {
		select {
		case c := <-changes:
			if c.To == StateError {
				sawError = true
			}
		case <-ctx.Done():
			assert.True(t, sawError)
			assert.Equal(t, int64(0), sup.Counters().TransmissionsSent.Load())
			return
		}
	}
}
