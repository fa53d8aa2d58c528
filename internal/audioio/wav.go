package audioio

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/go-audio/wav"
	"github.com/meterbox/beacon/internal/config"
)

// WAVSource replays a WAV file on disk as a continuous mono channel,
// looping back to the start when it runs out of samples. Grounded on the
// teacher's internal/waveform/generator.go use of wav.NewDecoder +
// FullPCMBuffer, repurposed here from "render a waveform image" to "act as
// a recorded stand-in for the I²S peripheral" for bench-testing the DSP
// pipeline against real recorded audio instead of a synthetic tone.
type WAVSource struct {
	mu      sync.Mutex
	samples []float64
	pos     int
}

// NewWAVSource decodes path fully into memory (WAV files used for bench
// testing are expected to be short) and normalizes every sample to
// [-1, 1] based on the file's bit depth.
func NewWAVSource(path string) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DriverError{Err: err}
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, &DriverError{Err: fmt.Errorf("%s: not a valid WAV file", path)}
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, &DriverError{Err: err}
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, &DriverError{Err: fmt.Errorf("%s: empty audio buffer", path)}
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	maxVal := math.Pow(2, float64(bitDepth-1)) - 1

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	// Downmix to mono by taking the left channel (channel 0), matching the
	// spec's "delivers single-channel (left) samples" (spec §4.1).
	samples := make([]float64, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		samples = append(samples, float64(buf.Data[i])/maxVal)
	}

	return &WAVSource{samples: samples}, nil
}

// AcquireWindow returns the next window-length slice of the decoded file,
// wrapping around to the start when exhausted.
func (s *WAVSource) AcquireWindow(ctx context.Context, cfg config.AudioConfig) (AudioWindow, error) {
	if err := ctx.Err(); err != nil {
		return AudioWindow{}, err
	}

	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := windowLen(cfg)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = s.samples[s.pos]
		s.pos++
		if s.pos >= len(s.samples) {
			s.pos = 0
		}
	}

	return AudioWindow{Samples: out, SampleRate: cfg.SampleRate, AcquiredAt: start}, nil
}
