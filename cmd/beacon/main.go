// Command beacon runs the audience-measurement sensor process: capture,
// fingerprint, transport, and the two-button/OLED operator interface, all
// driven by the pipeline supervisor. Grounded on the teacher's
// cmd/server/main.go wiring order (config first, then the logger, then
// dependencies, then the long-running service, then a signal-driven
// graceful shutdown) adapted from a single HTTP server goroutine to the
// supervisor + HMI goroutine pair.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/meterbox/beacon/internal/audioio"
	"github.com/meterbox/beacon/internal/config"
	"github.com/meterbox/beacon/internal/hmi"
	"github.com/meterbox/beacon/internal/linklayer"
	"github.com/meterbox/beacon/internal/logger"
	"github.com/meterbox/beacon/internal/metrics"
	"github.com/meterbox/beacon/internal/pipeline"
	"github.com/meterbox/beacon/internal/telemetry"
	"github.com/meterbox/beacon/internal/transport"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath     string
	linkConfigPath string
	interactive    bool
	metricsAddr    string
)

var rootCmd = &cobra.Command{
	Use:   "beacon",
	Short: "Beacon audience-measurement sensor",
	Long: `Beacon captures ambient audio, extracts a lightweight fingerprint,
and reports it to an aggregation server on a fixed cadence. It exposes a
two-button/OLED operator interface for reviewing status and adjusting
capture parameters in the field.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the capture/fingerprint/transport pipeline",
	RunE:  runBeacon,
}

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Print the current runtime and audio configuration and exit",
	RunE:  showConfig,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to beacon.toml (default: ./beacon.toml)")
	rootCmd.PersistentFlags().StringVar(&linkConfigPath, "link-config", "link.yaml", "path to the link-layer config (SSID/PSK/server URL/device ID)")
	runCmd.Flags().BoolVar(&interactive, "interactive", false, "drive the HMI from the terminal (keyboard 'n'/'e') instead of printing status frames with no button input")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "address to serve /metrics on (empty disables it)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(showConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings centralizes the settings/link-config load shared by both
// subcommands. It loads a .env file first (ignoring a missing one, since
// production runs set BEACON_* directly in the environment) so local
// development can override settings without exporting shell variables.
func loadSettings() (config.Settings, linklayer.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Print("no .env file found, using system environment variables")
	}

	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return config.Settings{}, linklayer.Config{}, fmt.Errorf("load settings: %w", err)
	}
	linkCfg, err := linklayer.LoadConfig(linkConfigPath)
	if err != nil {
		return config.Settings{}, linklayer.Config{}, fmt.Errorf("load link config: %w", err)
	}
	if linkCfg.ServerURL == "" {
		linkCfg.ServerURL = settings.ServerURL
	}
	if linkCfg.DeviceID == "" {
		linkCfg.DeviceID = settings.DeviceID
	}
	return settings, linkCfg, nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	settings, linkCfg, err := loadSettings()
	if err != nil {
		return err
	}
	store := config.NewStore(settings.StateDir)
	store.Load()
	cfg := store.Get()

	fmt.Printf("state_dir:   %s\n", settings.StateDir)
	fmt.Printf("demo:        %v\n", settings.Demo)
	fmt.Printf("wav_path:    %s\n", settings.WAVPath)
	fmt.Printf("server_url:  %s\n", linkCfg.ServerURL)
	fmt.Printf("device_id:   %s\n", linkCfg.DeviceID)
	fmt.Printf("sample_rate: %d Hz\n", cfg.SampleRate)
	fmt.Printf("fft_size:    %d\n", cfg.FFTSize)
	fmt.Printf("n_mels:      %d\n", cfg.NMels)
	fmt.Printf("capture_dur: %ds\n", cfg.CaptureDuration)
	fmt.Printf("capture_int: %ds\n", cfg.CaptureInterval)
	fmt.Printf("noise_thresh: %.4f\n", cfg.NoiseThreshold)
	fmt.Printf("quality_lvl: %d\n", cfg.QualityLevel)
	return nil
}

func runBeacon(cmd *cobra.Command, args []string) error {
	settings, linkCfg, err := loadSettings()
	if err != nil {
		return err
	}

	if err := logger.Initialize(settings.LogLevel, settings.LogFile); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Close() }()

	metrics.Initialize()

	tp, err := telemetry.InitTracer(telemetry.Config{
		ServiceName: "beacon",
		DeviceID:    linkCfg.DeviceID,
		Enabled:     true,
	})
	if err != nil {
		logger.FatalWithFields("failed to initialize tracer", err)
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		}()
	}

	link := linklayer.New(linkCfg)

	store := config.NewStore(settings.StateDir)
	store.Load()

	source, err := buildAudioSource(settings)
	if err != nil {
		logger.FatalWithFields("failed to build audio source", err)
	}

	publisher := transport.New(link)
	sup := pipeline.New(source, store, link, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go link.RunTimeSync(ctx)

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.ErrorWithFields("metrics server exited", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	go func() {
		logger.Log.Info("beacon starting", zap.String("device_id", linkCfg.DeviceID), zap.String("server_url", linkCfg.ServerURL))
		if err := sup.Run(ctx); err != nil && err != context.Canceled {
			logger.ErrorWithFields("supervisor exited", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if interactive {
		keys := hmi.NewKeyButtons()
		h := hmi.New(sup, store, &hmi.FramebufferDisplay{}, keys)
		go h.Run(ctx)

		prog := hmi.NewProgram(keys, cancel, h.Frame)
		go func() {
			<-quit
			cancel()
		}()
		if _, err := prog.Run(); err != nil {
			logger.ErrorWithFields("interactive HMI exited", err)
		}
	} else {
		// Headless: no keyboard is attached, so button input never fires.
		// Status is still rendered to the terminal and exported on the
		// HTTP /metrics endpoint.
		h := hmi.New(sup, store, hmi.NewTerminalDisplay(), hmi.NewScriptedButtons())
		go h.Run(ctx)
		<-quit
	}

	logger.Log.Info("shutting down")
	cancel()

	if err := store.Persist(); err != nil {
		logger.ErrorWithFields("failed to persist audio config on shutdown", err)
	}

	logger.Log.Info("beacon exited")
	return nil
}

// buildAudioSource picks a synthetic tone source, a looping WAV file, or
// (when neither is requested) still falls back to the tone source: this
// process never drives real I2S hardware, only the two bench-testing
// sources described in the settings.
func buildAudioSource(settings config.Settings) (audioio.Source, error) {
	if !settings.Demo && settings.WAVPath != "" {
		return audioio.NewWAVSource(settings.WAVPath)
	}
	return audioio.NewToneSource(440.0, 0.2), nil
}
