// Package config implements the beacon's Config Store + Presets (C5): the
// tunable AudioConfig, its validated mutators, the quality-preset table, and
// the NVS-style persistence the spec describes as an "opaque binary blob"
// (spec §4.5, §6). Grounded on the teacher's internal/config package shape
// (a focused, side-effect-light settings loader) and on cli/pkg/config for
// the viper+toml pattern reused in settings.go for operator runtime
// settings that are not part of AudioConfig itself.
package config

import "github.com/meterbox/beacon/internal/apierr"

// AudioConfig holds every field the HMI's Config menu can reach (spec §6).
// It is small and copied by value deliberately: the store hands out
// snapshots, never pointers into live state (see store.go).
type AudioConfig struct {
	SampleRate      int     `json:"sample_rate"`
	FFTSize         int     `json:"fft_size"`
	HopLength       int     `json:"hop_length"`
	NMels           int     `json:"n_mels"`
	CaptureDuration int     `json:"capture_duration"`
	CaptureInterval int     `json:"capture_interval"`
	NoiseThreshold  float64 `json:"noise_threshold"`
	QualityLevel    int     `json:"quality_level"`
	MinFreq         float64 `json:"min_freq"`
	MaxFreq         float64 `json:"max_freq"`
}

// Default is the config a fresh device boots with, and the fallback used
// whenever load() fails (spec §7: "the NVS config subsystem swallows all
// failures and falls back to defaults").
var Default = AudioConfig{
	SampleRate:      16000,
	FFTSize:         1024,
	HopLength:       256, // 75% overlap, same ratio as the teacher's fingerprinter
	NMels:           13,
	CaptureDuration: 30,
	CaptureInterval: 60,
	NoiseThreshold:  0.001,
	QualityLevel:    3,
	MinFreq:         80,
	MaxFreq:         4000,
}

// Preset is one row of the quality-preset table (spec §6).
type Preset struct {
	SampleRate      int
	FFTSize         int
	NMels           int
	CaptureDuration int
	CaptureInterval int
}

// Presets is indexed by quality level 1..5; index 0 is unused.
var Presets = [6]Preset{
	{}, // unused
	{SampleRate: 8000, FFTSize: 512, NMels: 10, CaptureDuration: 15, CaptureInterval: 120},
	{SampleRate: 16000, FFTSize: 512, NMels: 12, CaptureDuration: 20, CaptureInterval: 90},
	{SampleRate: 16000, FFTSize: 1024, NMels: 13, CaptureDuration: 30, CaptureInterval: 60},
	{SampleRate: 22050, FFTSize: 1024, NMels: 15, CaptureDuration: 45, CaptureInterval: 45},
	{SampleRate: 44100, FFTSize: 2048, NMels: 20, CaptureDuration: 60, CaptureInterval: 30},
}

// ApplyPreset overwrites the five preset-controlled fields from Presets[level]
// and sets QualityLevel, per spec §4.5/§6. level must be in [1,5].
func (c *AudioConfig) ApplyPreset(level int) error {
	if level < 1 || level > 5 {
		return apierr.Validation("quality_level", level)
	}
	p := Presets[level]
	c.SampleRate = p.SampleRate
	c.FFTSize = p.FFTSize
	c.HopLength = p.FFTSize / 4 // keep the 75% overlap ratio across presets
	c.NMels = p.NMels
	c.CaptureDuration = p.CaptureDuration
	c.CaptureInterval = p.CaptureInterval
	c.QualityLevel = level
	return nil
}

// Field names accepted by Set, matching the HMI's 8-item menu minus "Exit"
// (spec §4.6).
const (
	FieldSampleRate      = "sample_rate"
	FieldFFTSize         = "fft_size"
	FieldNMels           = "n_mels"
	FieldCaptureDuration = "capture_duration"
	FieldCaptureInterval = "capture_interval"
	FieldNoiseThreshold  = "noise_threshold"
	FieldQualityLevel    = "quality_level"
)

// Set validates and applies a single field mutation (spec §4.5). On
// rejection the caller must keep its previous displayed value unchanged
// (spec §7, "configuration error").
func (c *AudioConfig) Set(field string, value any) error {
	switch field {
	case FieldSampleRate:
		v, ok := value.(int)
		if !ok || v < 8000 || v > 192000 {
			return apierr.Validation(field, value)
		}
		c.SampleRate = v
	case FieldFFTSize:
		v, ok := value.(int)
		if !ok || v < 64 || v > 8192 || (v&(v-1)) != 0 {
			return apierr.Validation(field, value)
		}
		c.FFTSize = v
		if c.HopLength > c.FFTSize {
			// preserve the hop_length <= fft_size invariant when fft_size
			// shrinks below the previously configured hop.
			c.HopLength = c.FFTSize
		}
	case FieldNMels:
		v, ok := value.(int)
		if !ok || v < 1 || v > 128 {
			return apierr.Validation(field, value)
		}
		c.NMels = v
	case FieldCaptureDuration:
		v, ok := value.(int)
		if !ok || v < 1 || v > 600 {
			return apierr.Validation(field, value)
		}
		c.CaptureDuration = v
	case FieldCaptureInterval:
		v, ok := value.(int)
		if !ok || v < 0 || v > 3600 {
			return apierr.Validation(field, value)
		}
		c.CaptureInterval = v
	case FieldNoiseThreshold:
		v, ok := value.(float64)
		if !ok || v < 0 || v > 1 {
			return apierr.Validation(field, value)
		}
		c.NoiseThreshold = v
	case FieldQualityLevel:
		v, ok := value.(int)
		if !ok {
			return apierr.Validation(field, value)
		}
		return c.ApplyPreset(v)
	default:
		return apierr.Validation(field, value)
	}
	return nil
}

// sampleRateCycle, fftSizeCycle, ... list the cyclic wrap-around values
// AdvanceField steps through for each menu item on the HMI's "Edit" button
// (spec §6).
var sampleRateCycle = []int{16000, 22050, 44100}
var fftSizeCycle = []int{512, 1024, 2048}
var nMelsCycle = []int{10, 12, 14, 16, 18, 20}
var captureDurationCycle = []int{15, 30, 45, 60}
var captureIntervalCycle = []int{30, 60, 90, 120, 150, 180, 210, 240, 270, 300}
var noiseThresholdCycle = []float64{0.001, 0.011, 0.021, 0.031, 0.041, 0.051, 0.061, 0.071, 0.081, 0.091}

func nextIn[T comparable](cycle []T, cur T) T {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// AdvanceField cycles field to its next allowed value per the §6
// wrap-around table, used by the HMI's Edit button inside the Config menu.
func (c *AudioConfig) AdvanceField(field string) error {
	switch field {
	case FieldSampleRate:
		return c.Set(field, nextIn(sampleRateCycle, c.SampleRate))
	case FieldFFTSize:
		return c.Set(field, nextIn(fftSizeCycle, c.FFTSize))
	case FieldNMels:
		return c.Set(field, nextIn(nMelsCycle, c.NMels))
	case FieldCaptureDuration:
		return c.Set(field, nextIn(captureDurationCycle, c.CaptureDuration))
	case FieldCaptureInterval:
		return c.Set(field, nextIn(captureIntervalCycle, c.CaptureInterval))
	case FieldNoiseThreshold:
		return c.Set(field, nextIn(noiseThresholdCycle, c.NoiseThreshold))
	case FieldQualityLevel:
		next := c.QualityLevel + 1
		if next > 5 {
			next = 1
		}
		return c.ApplyPreset(next)
	default:
		return apierr.Validation(field, nil)
	}
}
