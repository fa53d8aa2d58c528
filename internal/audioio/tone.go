package audioio

import (
	"context"
	"math"
	"time"

	"github.com/meterbox/beacon/internal/config"
)

// ToneSource is a synthetic audio source: it generates a sine wave (or
// silence) in place of an I²S peripheral. Used for the "demo" device mode
// and for the silent-room/steady-tone scenarios in the test suite (spec
// §8 end-to-end scenarios 1 and 2).
type ToneSource struct {
	// FreqHz is the tone frequency; 0 produces silence.
	FreqHz float64
	// Amplitude scales the generated sine in [-1, 1].
	Amplitude float64

	phase float64
}

// NewToneSource builds a source generating a continuous sine at freqHz and
// the given amplitude. freqHz == 0 generates silence.
func NewToneSource(freqHz, amplitude float64) *ToneSource {
	return &ToneSource{FreqHz: freqHz, Amplitude: amplitude}
}

// AcquireWindow synthesizes exactly sample_rate*capture_duration samples,
// honoring context cancellation as the only way acquisition returns early
// (mirroring a real blocking I²S read being interruptible only by a driver
// fault, modeled here as ctx.Err()).
func (s *ToneSource) AcquireWindow(ctx context.Context, cfg config.AudioConfig) (AudioWindow, error) {
	start := time.Now()
	n := windowLen(cfg)
	samples := make([]float64, n)

	if s.FreqHz <= 0 {
		return AudioWindow{Samples: samples, SampleRate: cfg.SampleRate, AcquiredAt: start}, ctx.Err()
	}

	angularStep := 2 * math.Pi * s.FreqHz / float64(cfg.SampleRate)
	for i := 0; i < n; i++ {
		samples[i] = s.Amplitude * math.Sin(s.phase)
		s.phase += angularStep
		if s.phase > 2*math.Pi {
			s.phase -= 2 * math.Pi
		}
	}
	if err := ctx.Err(); err != nil {
		return AudioWindow{}, err
	}
	return AudioWindow{Samples: samples, SampleRate: cfg.SampleRate, AcquiredAt: start}, nil
}
