package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultShutdownTimeout is the grace period applied when the
// configuration does not specify one.
const DefaultShutdownTimeout = 30 * time.Second

// DefaultDocument returns the built-in base document every resolved
// configuration is merged over. It is regenerated on each call so merges
// can never mutate shared state.
func DefaultDocument() *Document {
	return FromMap(map[string]any{
		"logging": map[string]any{
			"level":  "INFO",
			"format": "text",
			"output": "stderr",
		},
		"shutdown_timeout": DefaultShutdownTimeout.String(),
		"telemetry": map[string]any{
			"enabled":     false,
			"endpoint":    "localhost:4317",
			"insecure":    true,
			"sample_rate": 1.0,
			"profiling": map[string]any{
				"enabled":  false,
				"endpoint": "http://localhost:4040",
			},
		},
		"ops": map[string]any{
			"enabled":       false,
			"port":          9090,
			"read_timeout":  "10s",
			"write_timeout": "10s",
			"idle_timeout":  "60s",
		},
	})
}

// ApplyDefaults normalizes a decoded configuration. Zero values that slipped
// past the default document (for example an explicit empty string in the
// file) are replaced, and the log level is normalized to uppercase.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = 1.0
	}
	if cfg.Telemetry.Profiling.Endpoint == "" {
		cfg.Telemetry.Profiling.Endpoint = "http://localhost:4040"
	}
	if cfg.Ops.Enabled && cfg.Ops.Port == 0 {
		cfg.Ops.Port = 9090
	}
}

// sampleConfig is the commented template written by the init command.
const sampleConfig = `# Meridian standalone component configuration.
#
# Any value below can be overridden with an environment variable:
# MERIDIAN_<SECTION>_<KEY>, e.g. MERIDIAN_LOGGING_LEVEL=DEBUG.

logging:
  # Minimum log level: DEBUG, INFO, WARN, ERROR
  level: INFO
  # Output format: text, json
  format: text
  # Where logs go: stdout, stderr, or a file path
  output: stderr

# Grace period for voluntary teardown before forced termination.
shutdown_timeout: 30s

# Operational HTTP endpoint: /healthz, /readyz and Prometheus /metrics.
ops:
  enabled: false
  port: 9090

# OpenTelemetry tracing (exported over OTLP gRPC).
telemetry:
  enabled: false
  endpoint: localhost:4317
  insecure: true
  sample_rate: 1.0
  profiling:
    enabled: false
    endpoint: http://localhost:4040

# Component-specific settings. The harness passes this section through to
# the component untouched.
component:
  interval: 10s
  message: heartbeat
`

// WriteSample writes the commented sample configuration to path. An
// existing file is only overwritten when force is set.
func WriteSample(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
