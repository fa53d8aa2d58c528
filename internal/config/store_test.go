package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetReturnsIndependentSnapshot(t *testing.T) {
	s := NewStore(t.TempDir())
	first := s.Get()
	require.NoError(t, s.Set(FieldSampleRate, 44100))
	assert.Equal(t, Default.SampleRate, first.SampleRate, "a snapshot already read must not change under the reader")
	assert.Equal(t, 44100, s.Get().SampleRate)
}

func TestStorePersistThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Set(FieldSampleRate, 44100))
	require.NoError(t, s.Set(FieldNoiseThreshold, 0.05))
	require.NoError(t, s.Persist())

	reloaded := NewStore(dir)
	reloaded.Load()
	assert.Equal(t, s.Get(), reloaded.Get())
}

func TestStoreLoadFallsBackToDefaultsWhenFileMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Load()
	assert.Equal(t, Default, s.Get())
}

func TestStoreLoadFallsBackToDefaultsWhenBlobCorrupt(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Persist())

	corrupt := NewStore(dir)
	require.NoError(t, os.WriteFile(s.path, []byte("not a gob blob"), 0o600))
	corrupt.Load()
	assert.Equal(t, Default, corrupt.Get())
}

func TestStoreSetRejectsInvalidFieldWithoutMutating(t *testing.T) {
	s := NewStore(t.TempDir())
	before := s.Get()
	assert.Error(t, s.Set(FieldSampleRate, -1))
	assert.Equal(t, before, s.Get())
}
