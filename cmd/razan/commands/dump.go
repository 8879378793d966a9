package commands

import (
	"fmt"
	"strings"

	"github.com/razanlang/razan/pkg/config"
	"github.com/spf13/cobra"
)

func newDumpCommand(opts *options) *cobra.Command {
	var format string

	formats := make([]string, len(config.Formats))
	for i, f := range config.Formats {
		formats[i] = string(f)
	}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the evaluated configuration",
		Long: `Print the evaluated configuration as JSON, YAML or CUE.

Keys keep their file order: top-level keys first, then each section in the
order it was declared. Function values such as env("HOME") are shown
already evaluated.`,
		Example: `  razan dump
  razan dump --format yaml
  razan -f deploy/.razan dump --format cue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.jsonOutput {
				format = string(config.FormatJSON)
			}

			tel, ctx, cleanup, err := opts.setup(cmd, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			doc, err := opts.load(ctx, tel)
			if err != nil {
				return err
			}

			data, err := config.Export(doc, config.Format(format))
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", string(config.FormatJSON),
		fmt.Sprintf("output format (%s)", strings.Join(formats, ", ")))

	return cmd
}
