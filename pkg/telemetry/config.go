package telemetry

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Exporters accepted by TracingConfig.Exporter.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Config selects where razan sends logs, spans and metrics.
type Config struct {
	ServiceName    string `validate:"required"`
	ServiceVersion string `validate:"required"`

	Logging LoggingConfig
	Tracing TracingConfig
	Metrics MetricsConfig
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	// Level is a zerolog level name.
	Level string `validate:"oneof=trace debug info warn error"`

	// Format is console for humans or json for collectors.
	Format string `validate:"oneof=console json"`

	// Output receives log lines. Nil means stderr.
	Output io.Writer
}

// TracingConfig configures span export.
type TracingConfig struct {
	Exporter string `validate:"oneof=none stdout otlp"`

	// Endpoint is the OTLP gRPC collector, e.g. "localhost:4317".
	Endpoint string `validate:"required_if=Exporter otlp"`

	// Insecure dials the collector without TLS.
	Insecure bool

	SamplingRate float64 `validate:"gte=0,lte=1"`

	// Output receives spans from the stdout exporter. Nil means stdout.
	Output io.Writer
}

// MetricsConfig configures the Prometheus registry and its HTTP endpoint.
type MetricsConfig struct {
	// Enabled turns collection on. Record methods are no-ops otherwise.
	Enabled bool

	// ListenAddress serves Path when set, e.g. ":9464".
	ListenAddress string

	Path      string `validate:"required_if=Enabled true,omitempty,startswith=/"`
	Namespace string `validate:"required_if=Enabled true"`

	// LoadBuckets are the load_duration_seconds buckets.
	LoadBuckets []float64
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig collects metrics in-process, exports no spans and logs
// warnings and above to stderr.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "razan",
		ServiceVersion: "dev",
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Tracing: TracingConfig{
			Exporter:     ExporterNone,
			SamplingRate: 1.0,
			Insecure:     true,
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			Namespace:   "razan",
			LoadBuckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	err := configValidator.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	problems := make([]string, len(verrs))
	for i, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			problems[i] = fmt.Sprintf("%s fails %s=%s", field, fe.Tag(), fe.Param())
		} else {
			problems[i] = fmt.Sprintf("%s fails %s", field, fe.Tag())
		}
	}
	return fmt.Errorf("invalid telemetry config: %s", strings.Join(problems, "; "))
}
