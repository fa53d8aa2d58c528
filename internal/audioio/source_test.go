package audioio

import (
	"context"
	"testing"

	"github.com/meterbox/beacon/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneSourceSilenceProducesExactWindowLength(t *testing.T) {
	src := NewToneSource(0, 0)
	cfg := config.AudioConfig{SampleRate: 16000, CaptureDuration: 1}

	w, err := src.AcquireWindow(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.SampleRate*cfg.CaptureDuration, len(w.Samples))

	for _, s := range w.Samples {
		assert.Equal(t, 0.0, s)
	}
}

func TestToneSourceStaysInRange(t *testing.T) {
	src := NewToneSource(1000, 0.3)
	cfg := config.AudioConfig{SampleRate: 16000, CaptureDuration: 1}

	w, err := src.AcquireWindow(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, w.Samples, cfg.SampleRate*cfg.CaptureDuration)

	for _, s := range w.Samples {
		assert.LessOrEqual(t, s, 0.3)
		assert.GreaterOrEqual(t, s, -0.3)
	}
}

func TestToneSourceRespectsCancellation(t *testing.T) {
	src := NewToneSource(0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.AcquireWindow(ctx, config.AudioConfig{SampleRate: 16000, CaptureDuration: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
