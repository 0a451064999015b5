package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/meridian-sys/standalone/internal/logger"
	"github.com/meridian-sys/standalone/internal/telemetry"
	"github.com/meridian-sys/standalone/pkg/beacon"
	"github.com/meridian-sys/standalone/pkg/config"
	"github.com/meridian-sys/standalone/pkg/lifecycle"
	"github.com/meridian-sys/standalone/pkg/ops"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the beacon component",
	Long: `Start the beacon component in the foreground.

The configuration file is resolved in priority order: --config flag,
$MERIDIAN_CONFIG, $XDG_CONFIG_HOME/meridian/beacon.yaml, then
/etc/meridian/beacon.yaml. The first existing file wins; a broken file is
an error, never a silent fallback.

Examples:
  # Start with the default config location
  beacon start

  # Start with a custom config file
  beacon start --config /etc/meridian/beacon.yaml

  # Override single values through the environment
  MERIDIAN_LOGGING_LEVEL=DEBUG beacon start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, src, err := LoadConfig()
	if err != nil {
		return err
	}

	// Logging comes up immediately after configuration so every later
	// failure is reported through the configured backend.
	if err := InitLogger(cfg); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger.Info("configuration loaded", "source", src.String(), "run_id", runID)
	logger.Info("log backend initialized", "level", cfg.Logging.Level, "format", cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    ComponentName,
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    ComponentName,
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	if telemetry.IsEnabled() {
		logger.Info("telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint)
	}

	// Edits to the config file take effect on restart only; the watcher
	// exists to tell the operator that, not to hot-reload.
	if src.Path != "" {
		go func() {
			if err := config.WatchFile(ctx, src.Path); err != nil {
				logger.Warn("config watcher unavailable", "error", err)
			}
		}()
	}

	req := lifecycle.NewShutdownRequest()
	bridge := lifecycle.NewBridge(req)
	bridge.Start()
	defer bridge.Stop()

	ctrl := lifecycle.New(cfg.ShutdownTimeout, req)
	if cfg.Ops.Enabled {
		ctrl.AddAuxiliary(ops.NewServer(cfg.Ops, ctrl.Running))
	}

	return ctrl.Serve(ctx, ComponentName, beacon.New, cfg)
}
