package hmi

import (
	"fmt"

	"github.com/meterbox/beacon/internal/config"
)

// menuItem is one entry of the Config screen's 8-item cyclic menu (spec
// §4.6): the 7 AudioConfig fields plus "Exit".
type menuItem struct {
	label string
	field string // "" for the Exit item
}

var menuItems = []menuItem{
	{label: "Sample Rate", field: config.FieldSampleRate},
	{label: "FFT Size", field: config.FieldFFTSize},
	{label: "MFCC Coeffs", field: config.FieldNMels},
	{label: "Capture Dur", field: config.FieldCaptureDuration},
	{label: "Capture Int", field: config.FieldCaptureInterval},
	{label: "Noise Thresh", field: config.FieldNoiseThreshold},
	{label: "Quality Lvl", field: config.FieldQualityLevel},
	{label: "Exit", field: ""},
}

// menuValue formats the current value of item for display.
func menuValue(item menuItem, cfg config.AudioConfig) string {
	switch item.field {
	case config.FieldSampleRate:
		return fmt.Sprintf("%d Hz", cfg.SampleRate)
	case config.FieldFFTSize:
		return fmt.Sprintf("%d", cfg.FFTSize)
	case config.FieldNMels:
		return fmt.Sprintf("%d", cfg.NMels)
	case config.FieldCaptureDuration:
		return fmt.Sprintf("%ds", cfg.CaptureDuration)
	case config.FieldCaptureInterval:
		return fmt.Sprintf("%ds", cfg.CaptureInterval)
	case config.FieldNoiseThreshold:
		return fmt.Sprintf("%.3f", cfg.NoiseThreshold)
	case config.FieldQualityLevel:
		return fmt.Sprintf("%d", cfg.QualityLevel)
	default:
		return ""
	}
}
