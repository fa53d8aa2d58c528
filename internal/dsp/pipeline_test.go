package dsp

import (
	"math"
	"testing"
	"time"

	"github.com/meterbox/beacon/internal/audioio"
	"github.com/meterbox/beacon/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.AudioConfig {
	cfg := config.Default
	cfg.SampleRate = 16000
	cfg.CaptureDuration = 30
	return cfg
}

func TestNoiseIdempotence(t *testing.T) {
	cfg := testConfig()
	w := audioio.AudioWindow{
		Samples:    make([]float64, cfg.SampleRate*cfg.CaptureDuration),
		SampleRate: cfg.SampleRate,
		AcquiredAt: time.Now(),
	}

	fp := Process(w, cfg)
	assert.Equal(t, 0.0, fp.Confidence)
	assert.Less(t, fp.Confidence, PublishThreshold)
}

func TestDeterminism(t *testing.T) {
	cfg := testConfig()
	samples := make([]float64, cfg.SampleRate*cfg.CaptureDuration)
	for i := range samples {
		samples[i] = 0.3 * math.Sin(2*math.Pi*1000*float64(i)/float64(cfg.SampleRate))
	}
	ts := time.Now()
	w := audioio.AudioWindow{Samples: samples, SampleRate: cfg.SampleRate, AcquiredAt: ts}

	fp1 := Process(w, cfg)
	fp2 := Process(w, cfg)

	assert.Equal(t, fp1.Payload, fp2.Payload)
	assert.Equal(t, fp1.Hash, fp2.Hash)
	assert.Equal(t, fp1.Confidence, fp2.Confidence)
}

func TestSteadyToneExceedsPublishThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.NoiseThreshold = 0.001
	samples := make([]float64, cfg.SampleRate*cfg.CaptureDuration)
	for i := range samples {
		samples[i] = 0.3 * math.Sin(2*math.Pi*1000*float64(i)/float64(cfg.SampleRate))
	}
	w := audioio.AudioWindow{Samples: samples, SampleRate: cfg.SampleRate, AcquiredAt: time.Now()}

	fp := Process(w, cfg)
	assert.Greater(t, fp.Confidence, PublishThreshold)
	assert.LessOrEqual(t, fp.Confidence, 1.0)
}

func TestHashIsThirtyTwoLowercaseHexChars(t *testing.T) {
	cfg := testConfig()
	samples := make([]float64, cfg.SampleRate*cfg.CaptureDuration)
	for i := range samples {
		samples[i] = 0.3 * math.Sin(2*math.Pi*1000*float64(i)/float64(cfg.SampleRate))
	}
	w := audioio.AudioWindow{Samples: samples, SampleRate: cfg.SampleRate, AcquiredAt: time.Now()}

	fp := Process(w, cfg)
	require.Len(t, fp.Hash, 32)
	for _, c := range fp.Hash {
		assert.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'))
	}
}
