package commands

import (
	"fmt"
	"time"

	"github.com/razanlang/razan/pkg/config"
	"github.com/razanlang/razan/pkg/telemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newWatchCommand(opts *options) *cobra.Command {
	var (
		metricsAddr string
		debounce    time.Duration
		format      string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the configuration whenever it changes",
		Long: `Load the configuration, print it, and print it again after every change.

With --metrics-addr, load and reload metrics are served in Prometheus format
on /metrics at that address until the command is interrupted.`,
		Example: `  razan watch
  razan watch --format yaml --metrics-addr :9464`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tel, ctx, cleanup, err := opts.setup(cmd, func(cfg *telemetry.Config) {
				cfg.Metrics.ListenAddress = metricsAddr
			})
			if err != nil {
				return err
			}
			defer cleanup()

			if err := tel.StartMetricsServer(); err != nil {
				return err
			}
			if metricsAddr != "" {
				log.Info().Str("address", metricsAddr).Msg("Serving metrics")
			}

			out := cmd.OutOrStdout()
			render := func(doc *config.Document) {
				data, err := config.Export(doc, config.Format(format))
				if err != nil {
					log.Error().Err(err).Msg("Failed to render configuration")
					return
				}
				_, _ = out.Write(data)
			}

			loader := config.NewLoader(config.WithTelemetry(tel))
			doc, err := loader.Load(ctx, opts.file)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", opts.file, err)
			}
			render(doc)

			watcher, err := config.NewWatcher(loader, opts.file, func(doc *config.Document, err error) {
				if err != nil {
					log.Warn().Err(err).Str("file", opts.file).Msg("Reload failed")
					return
				}
				fmt.Fprintf(out, "# reloaded %s\n", doc.ParsedAt.Format(time.RFC3339))
				render(doc)
			}, config.WithDebounce(debounce), config.WithWatchLogger(tel.Logger))
			if err != nil {
				return err
			}

			if err := watcher.Start(ctx); err != nil {
				return err
			}
			defer watcher.Close()

			<-ctx.Done()
			<-watcher.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().DurationVar(&debounce, "debounce", config.DefaultDebounce, "quiet period before reloading")
	cmd.Flags().StringVar(&format, "format", string(config.FormatJSON), "output format (json, yaml, cue)")

	return cmd
}
