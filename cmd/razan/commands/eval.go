package commands

import (
	"fmt"
	"strings"

	"github.com/razanlang/razan/pkg/value"
	"github.com/spf13/cobra"
)

func newEvalCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval TOKEN...",
		Short: "Evaluate a raw value as it would appear after 'is'",
		Long: fmt.Sprintf(`Evaluate a raw value token and print its kind and result.

Arguments are joined with single spaces. Supported functions: %s.`,
			strings.Join(value.FunctionNames(), ", ")),
		Example: `  razan eval '"App"'
  razan eval 'env("HOME")'
  razan eval randomUUIDv7\(\)
  razan eval 0x10 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			v := value.EvaluateValue(raw)

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, valueOutput{Input: raw, Kind: v.Kind().String(), Value: v})
			}
			fmt.Fprintf(out, "%s\t%s\n", v.Kind(), v.String())
			return nil
		},
	}

	return cmd
}
