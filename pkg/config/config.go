package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Config is the resolved, validated harness configuration shared read-only
// with the logging initializer and the constructed component.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (MERIDIAN_*)
//  2. Configuration file (first existing candidate source)
//  3. Built-in defaults
type Config struct {
	// Logging controls the process-wide log backend.
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`

	// ShutdownTimeout is the grace period a component is given to complete
	// voluntary teardown before forced termination.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// Telemetry controls OpenTelemetry tracing and continuous profiling.
	Telemetry TelemetryConfig `json:"telemetry" mapstructure:"telemetry" yaml:"telemetry"`

	// Ops configures the operational HTTP endpoint (health, metrics).
	Ops OpsConfig `json:"ops" mapstructure:"ops" yaml:"ops"`

	// Component holds the component-specific configuration section. The
	// harness does not define its schema; components decode it themselves
	// via DecodeComponent.
	Component map[string]any `json:"component,omitempty" mapstructure:"component" yaml:"component,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level: DEBUG, INFO, WARN or ERROR
	// (case-insensitive, normalized to uppercase).
	Level string `json:"level" mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format is the output format: text or json.
	Format string `json:"format" mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is where logs are written: stdout, stderr, or a file path.
	Output string `json:"output" mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing. When enabled,
// spans are exported to an OTLP-compatible collector.
type TelemetryConfig struct {
	// Enabled controls whether tracing is active. Default: false.
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port).
	Endpoint string `json:"endpoint" mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure disables TLS towards the collector. Default: true, for
	// local development.
	Insecure bool `json:"insecure" mapstructure:"insecure" yaml:"insecure"`

	// SampleRate is the trace sampling rate in [0.0, 1.0].
	SampleRate float64 `json:"sample_rate" mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	// Profiling configures Pyroscope continuous profiling.
	Profiling ProfilingConfig `json:"profiling" mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	// Enabled controls whether profiling is active. Default: false.
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the Pyroscope server URL.
	Endpoint string `json:"endpoint" mapstructure:"endpoint" yaml:"endpoint"`

	// ProfileTypes selects which profiles to collect (cpu, alloc_space,
	// inuse_space, goroutines, ...).
	ProfileTypes []string `json:"profile_types,omitempty" mapstructure:"profile_types" yaml:"profile_types,omitempty"`
}

// OpsConfig configures the operational HTTP server exposing liveness,
// readiness and Prometheus metrics endpoints. When Enabled is false no
// listener is opened.
type OpsConfig struct {
	// Enabled controls whether the ops endpoint is served. Default: false.
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP listen port.
	Port int `json:"port" mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// ReadTimeout, WriteTimeout and IdleTimeout bound the HTTP server.
	ReadTimeout  time.Duration `json:"read_timeout" mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout" mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

// Load resolves, merges and validates the configuration for a component.
//
// The pipeline is: resolve the first existing candidate source into an
// untyped document, merge it over the built-in defaults, overlay any
// MERIDIAN_* environment variables, decode the merged document into the
// typed schema, normalize, and validate. Every failure mode maps to the
// harness error taxonomy (ErrNotFound, ParseError, MergeConflictError,
// SchemaError).
func Load(component, explicit string) (*Config, Source, error) {
	fileDoc, src, err := Resolve(CandidateSources(component, explicit))
	if err != nil {
		return nil, src, err
	}

	cfg, err := buildConfig(fileDoc)
	if err != nil {
		return nil, src, err
	}
	return cfg, src, nil
}

// buildConfig merges a resolved document with defaults and environment
// overrides, then decodes and validates it. Pure apart from reading the
// environment; shared by Load and the tests.
func buildConfig(fileDoc *Document) (*Config, error) {
	merged, err := MergeAll(DefaultDocument(), fileDoc)
	if err != nil {
		return nil, err
	}
	merged, err = Merge(merged, EnvOverlay(merged))
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := decode(merged.Interface(), &cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DecodeComponent decodes the component-specific configuration section into
// the component's own typed schema, applying the same decode hooks as the
// harness schema (duration strings, weakly typed scalars from environment
// overrides). Validation of the result is the component's responsibility;
// ValidateSection is available for validator-tagged schemas.
func (c *Config) DecodeComponent(out any) error {
	if err := decode(c.Component, out); err != nil {
		return fmt.Errorf("decode component configuration: %w", err)
	}
	return nil
}

func decode(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(durationDecodeHook()),
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// durationDecodeHook converts strings like "30s" or "5m" and raw numbers
// (nanoseconds) to time.Duration.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// Validate checks the harness configuration against its declared
// constraints. Violations are returned as joined SchemaErrors carrying the
// dotted field path and the failed constraint.
func Validate(cfg *Config) error {
	return validateStruct(cfg, "")
}

// ValidateSection validates a component's decoded configuration section.
// Field paths in the resulting SchemaErrors are prefixed with "component."
// so diagnostics point at the actual location in the file.
func ValidateSection(section any) error {
	return validateStruct(section, "component.")
}

func validateStruct(v any, pathPrefix string) error {
	err := newValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	schemaErrs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		schemaErrs = append(schemaErrs, &SchemaError{
			Path:   pathPrefix + fieldPath(fe.Namespace()),
			Reason: constraintReason(fe),
		})
	}
	return errors.Join(schemaErrs...)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field paths using mapstructure tags so errors match the
	// configuration file, not Go identifiers.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return fld.Name
		}
		return tag
	})
	return v
}

// fieldPath strips the root struct name from a validator namespace,
// turning "Config.logging.level" into "logging.level".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func constraintReason(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("failed %q constraint (param %s), got %v", fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("failed %q constraint, got %v", fe.Tag(), fe.Value())
}
