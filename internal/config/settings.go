package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings holds operator-facing runtime configuration that is not part of
// the HMI-editable AudioConfig: where to run from, how to log, and whether
// to run against a synthetic audio source. Grounded on cli/pkg/config's
// viper+toml loader (same defaults-then-file-override shape), adapted from
// a CLI's user-config-directory lookup to a single process-local settings
// file appropriate for an always-on device.
type Settings struct {
	LogLevel string
	LogFile  string
	StateDir string
	Demo     bool // use the synthetic ToneSource instead of a WAV/hardware source
	WAVPath  string
	ServerURL string
	DeviceID string
}

// LoadSettings reads runtime settings from a TOML file and the environment,
// falling back to defaults for anything unset. configPath == "" uses
// "./beacon.toml" if present.
func LoadSettings(configPath string) (Settings, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "beacon.log")
	v.SetDefault("state_dir", "./state")
	v.SetDefault("demo", true)
	v.SetDefault("wav_path", "")
	v.SetDefault("server_url", "https://collector.example.invalid/v1/fingerprints")
	v.SetDefault("device_id", "beacon-dev")

	if configPath == "" {
		configPath = "beacon.toml"
	}
	v.SetConfigFile(configPath)
	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, err
		}
	}

	v.SetEnvPrefix("BEACON")
	v.AutomaticEnv()

	s := Settings{
		LogLevel:  v.GetString("log.level"),
		LogFile:   v.GetString("log.file"),
		StateDir:  v.GetString("state_dir"),
		Demo:      v.GetBool("demo"),
		WAVPath:   v.GetString("wav_path"),
		ServerURL: v.GetString("server_url"),
		DeviceID:  v.GetString("device_id"),
	}
	if s.StateDir != "" {
		s.StateDir = filepath.Clean(s.StateDir)
	}
	return s, nil
}
