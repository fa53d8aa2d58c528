package config

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/meterbox/beacon/internal/logger"
	"go.uber.org/zap"
)

// persistKey is the NVS key the spec assigns to the config blob (spec §4.5,
// §6). There is no real NVS partition on this host, so Store persists the
// same opaque blob to a single file instead.
const persistKey = "audio_config"

// Store holds the active AudioConfig behind an atomic snapshot pointer.
//
// Grounded on DESIGN NOTE §9's "promote the config to an immutable snapshot
// swapped atomically by a single-writer pattern": Get reads a pointer with
// no lock (cheap from C1/C2/C6, spec §4.5), and every mutation builds a new
// AudioConfig value and swaps the pointer, so a window already acquired
// keeps the snapshot it started with even if the HMI mutates fields mid-DSP
// (spec §4.5 invariant).
type Store struct {
	snapshot atomic.Pointer[AudioConfig]
	path     string
}

// NewStore creates a Store seeded with Default. Call Load to override it
// from persisted state.
func NewStore(stateDir string) *Store {
	s := &Store{path: filepath.Join(stateDir, persistKey+".bin")}
	cfg := Default
	s.snapshot.Store(&cfg)
	return s
}

// Get returns the current config snapshot by value.
func (s *Store) Get() AudioConfig {
	return *s.snapshot.Load()
}

// Set validates and applies a field mutation against a copy of the current
// snapshot, then swaps it in. Never mutates the snapshot other readers hold.
func (s *Store) Set(field string, value any) error {
	cfg := s.Get()
	if err := cfg.Set(field, value); err != nil {
		return err
	}
	s.snapshot.Store(&cfg)
	return nil
}

// ApplyPreset behaves like Set but for the 5-level preset shortcut.
func (s *Store) ApplyPreset(level int) error {
	cfg := s.Get()
	if err := cfg.ApplyPreset(level); err != nil {
		return err
	}
	s.snapshot.Store(&cfg)
	return nil
}

// AdvanceField cycles one field to its next allowed value (HMI Edit button).
func (s *Store) AdvanceField(field string) error {
	cfg := s.Get()
	if err := cfg.AdvanceField(field); err != nil {
		return err
	}
	s.snapshot.Store(&cfg)
	return nil
}

// Persist writes the current snapshot as a gob-encoded opaque blob (spec
// §4.5: "persist() ... opaque binary blob in non-volatile storage").
func (s *Store) Persist() error {
	cfg := s.Get()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, buf.Bytes(), 0o600)
}

// Load reads the persisted blob and swaps it in. Per spec §4.5/§7, any
// failure (missing file, corrupt blob) is swallowed and the store keeps
// whatever snapshot it already had (Default, unless Load is called before
// anything else mutates it).
func (s *Store) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		logger.DebugWithFields("no persisted audio_config, using defaults", zap.String("path", s.path))
		return
	}
	var cfg AudioConfig
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
		logger.WarnWithFields("corrupt audio_config blob, falling back to defaults", err)
		return
	}
	s.snapshot.Store(&cfg)
}
