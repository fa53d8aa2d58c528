package hmi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meterbox/beacon/internal/audioio"
	"github.com/meterbox/beacon/internal/config"
	"github.com/meterbox/beacon/internal/linklayer"
	"github.com/meterbox/beacon/internal/pipeline"
	"github.com/meterbox/beacon/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestButton1OutsideConfigEntersConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := config.NewStore(t.TempDir())
	require.NoError(t, store.ApplyPreset(3))
	link := linklayer.New(linklayer.Config{ServerURL: srv.URL, DeviceID: "beacon-test"})
	pub := transport.New(link)
	sup := pipeline.New(audioio.NewToneSource(0, 0), store, link, pub)

	fb := &FramebufferDisplay{}
	buttons := NewScriptedButtons([2]bool{true, false})
	h := New(sup, store, fb, buttons)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	h.pollButtons()

	require.Eventually(t, func() bool {
		return sup.State() == pipeline.StateConfig
	}, time.Second, 10*time.Millisecond)
}

func TestConfigMenuAdvancesQualityLevelAndExits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := config.NewStore(t.TempDir())
	require.NoError(t, store.ApplyPreset(1))

	fb := &FramebufferDisplay{}
	link := linklayer.New(linklayer.Config{ServerURL: srv.URL, DeviceID: "t"})
	pub := transport.New(link)
	sup := pipeline.New(audioio.NewToneSource(0, 0), store, link, pub)

	buttons := NewScriptedButtons([2]bool{true, false}, [2]bool{false, true}, [2]bool{false, true})
	h := New(sup, store, fb, buttons)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	require.Eventually(t, func() bool {
		return sup.State() == pipeline.StateSampling || sup.State() == pipeline.StateProcessing
	}, time.Second, 10*time.Millisecond)

	h.pollButtons() // B1: enter Config
	require.Eventually(t, func() bool { return sup.State() == pipeline.StateConfig }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, h.cursor)
	h.cursor = 6 // "Quality Lvl" item

	h.pollButtons() // B2: advance quality level to 2
	assert.Equal(t, 2, store.Get().QualityLevel)

	h.cursor = 7    // "Exit" item
	h.pollButtons() // B2: leave Config
	require.Eventually(t, func() bool { return sup.State() == pipeline.StateSampling }, time.Second, 10*time.Millisecond)
}
