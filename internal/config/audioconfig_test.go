package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPresetSetsAllFieldsAndQualityLevel(t *testing.T) {
	cfg := Default
	require.NoError(t, cfg.ApplyPreset(5))
	assert.Equal(t, Presets[5], Preset{
		SampleRate:      cfg.SampleRate,
		FFTSize:         cfg.FFTSize,
		NMels:           cfg.NMels,
		CaptureDuration: cfg.CaptureDuration,
		CaptureInterval: cfg.CaptureInterval,
	})
	assert.Equal(t, 5, cfg.QualityLevel)
}

func TestApplyPresetRejectsOutOfRangeLevel(t *testing.T) {
	cfg := Default
	assert.Error(t, cfg.ApplyPreset(0))
	assert.Error(t, cfg.ApplyPreset(6))
}

func TestSetRejectsWrongType(t *testing.T) {
	cfg := Default
	assert.Error(t, cfg.Set(FieldSampleRate, "16000"))
}

func TestSetRejectsOutOfRangeSampleRate(t *testing.T) {
	cfg := Default
	assert.Error(t, cfg.Set(FieldSampleRate, 1))
	assert.Error(t, cfg.Set(FieldSampleRate, 1_000_000))
}

func TestSetFFTSizeRejectsNonPowerOfTwo(t *testing.T) {
	cfg := Default
	assert.Error(t, cfg.Set(FieldFFTSize, 1000))
	assert.NoError(t, cfg.Set(FieldFFTSize, 2048))
	assert.Equal(t, 2048, cfg.FFTSize)
}

func TestAdvanceFieldWrapsAround(t *testing.T) {
	cfg := Default
	cfg.SampleRate = sampleRateCycle[len(sampleRateCycle)-1]
	require.NoError(t, cfg.AdvanceField(FieldSampleRate))
	assert.Equal(t, sampleRateCycle[0], cfg.SampleRate)
}

func TestAdvanceFieldQualityLevelWrapsFiveToOne(t *testing.T) {
	cfg := Default
	require.NoError(t, cfg.ApplyPreset(5))
	require.NoError(t, cfg.AdvanceField(FieldQualityLevel))
	assert.Equal(t, 1, cfg.QualityLevel)
}

func TestAdvanceFieldRejectsUnknownField(t *testing.T) {
	cfg := Default
	assert.Error(t, cfg.AdvanceField("not_a_field"))
}

func TestSetFFTSizeShrinksHopLengthToPreserveInvariant(t *testing.T) {
	cfg := Default
	cfg.HopLength = 256
	require.NoError(t, cfg.Set(FieldFFTSize, 64))
	assert.LessOrEqual(t, cfg.HopLength, cfg.FFTSize)
}

func TestApplyPresetKeepsHopLengthWithinFFTSize(t *testing.T) {
	for level := 1; level <= 5; level++ {
		cfg := Default
		require.NoError(t, cfg.ApplyPreset(level))
		assert.LessOrEqual(t, cfg.HopLength, cfg.FFTSize)
		assert.Less(t, cfg.MinFreq, cfg.MaxFreq)
		assert.LessOrEqual(t, cfg.MaxFreq, float64(cfg.SampleRate)/2)
	}
}
