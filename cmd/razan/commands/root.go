package commands

import (
	"context"
	"fmt"

	"github.com/razanlang/razan/pkg/config"
	"github.com/razanlang/razan/pkg/telemetry"
	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by all subcommands.
type options struct {
	file         string
	verbose      bool
	jsonOutput   bool
	traceExport  string
	otlpEndpoint string
	version      string
}

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	opts := &options{version: version}

	rootCmd := &cobra.Command{
		Use:   "razan",
		Short: "Read, check and export .razan configuration files",
		Long: `razan reads .razan configuration files.

A .razan file holds KEY is VALUE; assignments grouped under optional
[section] headers. Values may be quoted strings, numbers, booleans or
function calls such as env("HOME"), randomUUID() and toUpperCase("x").`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", config.FileName, "configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&opts.traceExport, "trace", "none", "trace exporter (none, stdout, otlp)")
	rootCmd.PersistentFlags().StringVar(&opts.otlpEndpoint, "otlp-endpoint", "localhost:4317", "OTLP collector endpoint")

	rootCmd.AddCommand(newGetCommand(opts))
	rootCmd.AddCommand(newDumpCommand(opts))
	rootCmd.AddCommand(newEvalCommand(opts))
	rootCmd.AddCommand(newValidateCommand(opts))
	rootCmd.AddCommand(newWatchCommand(opts))
	rootCmd.AddCommand(newInitCommand(opts))

	return rootCmd
}

// telemetryConfig builds the telemetry configuration for one invocation.
// Logs and stdout-exported spans go to stderr so command output stays
// clean.
func (o *options) telemetryConfig(cmd *cobra.Command) *telemetry.Config {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = o.version
	cfg.Logging.Output = cmd.ErrOrStderr()
	if o.verbose {
		cfg.Logging.Level = "debug"
	}

	cfg.Tracing.Exporter = o.traceExport
	cfg.Tracing.Output = cmd.ErrOrStderr()
	if o.traceExport == telemetry.ExporterOTLP {
		cfg.Tracing.Endpoint = o.otlpEndpoint
	}

	return cfg
}

// setup creates telemetry and attaches it to the command context. The
// returned function flushes it.
func (o *options) setup(cmd *cobra.Command, mutate func(*telemetry.Config)) (*telemetry.Telemetry, context.Context, func(), error) {
	cfg := o.telemetryConfig(cmd)
	if mutate != nil {
		mutate(cfg)
	}

	tel, err := telemetry.NewTelemetry(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	ctx := tel.WithContext(cmd.Context())
	cleanup := func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			tel.Logger.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}
	return tel, ctx, cleanup, nil
}

// load reads the configured file through an instrumented loader.
func (o *options) load(ctx context.Context, tel *telemetry.Telemetry) (*config.Document, error) {
	doc, err := config.NewLoader(config.WithTelemetry(tel)).Load(ctx, o.file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", o.file, err)
	}
	return doc, nil
}
