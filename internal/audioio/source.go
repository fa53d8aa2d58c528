// Package audioio implements the beacon's capture stage (C1): it opens a
// continuous audio channel, normalizes raw samples to float64 in [-1, 1],
// and delivers fixed-length AudioWindows sized by the active config. The
// capture cadence (the wait between windows) is applied by the pipeline
// supervisor, not by the sources here. Grounded on the teacher's internal/audio/processor.go for the
// overall "acquire, then hand off a buffer" shape, and on
// other_examples/rayboyd-audio-engine's int32-buffer conventions for how a
// continuous hardware-clocked channel is modeled in Go.
package audioio

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/meterbox/beacon/internal/config"
)

// AudioWindow is one contiguous block of normalized mono samples, timestamped
// at the start of acquisition (spec §4.1, §3).
type AudioWindow struct {
	Samples    []float64
	SampleRate int
	AcquiredAt time.Time
}

// Source is the capture-stage contract. acquire_window in the spec.
type Source interface {
	// AcquireWindow blocks until exactly SampleRate*CaptureDuration samples
	// have been gathered, using the config snapshot active when the call
	// began, then returns. Never returns a short window.
	AcquireWindow(ctx context.Context, cfg config.AudioConfig) (AudioWindow, error)
}

// int32Max is the divisor used to normalize a signed 32-bit sample to the
// [-1, 1] range (spec §4.1).
const int32Max = float64(math.MaxInt32)

func normalizeInt32(raw int32) float64 {
	return float64(raw) / int32Max
}

// windowLen returns the exact sample count a window must contain for cfg.
func windowLen(cfg config.AudioConfig) int {
	return cfg.SampleRate * cfg.CaptureDuration
}

// DriverError is wrapped into an apierr.FatalHardware by callers when the
// underlying channel cannot be opened or reports an unrecoverable error.
type DriverError struct {
	Err error
}

func (e *DriverError) Error() string { return fmt.Sprintf("audio driver: %v", e.Err) }
func (e *DriverError) Unwrap() error { return e.Err }
