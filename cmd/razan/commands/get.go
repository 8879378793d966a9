package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/razanlang/razan/pkg/value"
	"github.com/spf13/cobra"
)

func newGetCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get KEY | SECTION.KEY | SECTION",
		Short: "Print a single value or section",
		Example: `  # Top-level key
  razan get APP_NAME

  # Key inside [database]
  razan get database.HOST

  # Whole section as JSON
  razan get database --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tel, ctx, cleanup, err := opts.setup(cmd, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			doc, err := opts.load(ctx, tel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			path := args[0]

			if v, ok := doc.Lookup(path); ok {
				if opts.jsonOutput {
					return writeJSON(out, valueOutput{Key: path, Kind: v.Kind().String(), Value: v})
				}
				fmt.Fprintln(out, v.String())
				return nil
			}

			if section, ok := doc.Section(path); ok {
				if opts.jsonOutput {
					return writeJSON(out, section.ToMap())
				}
				for _, key := range section.Keys() {
					v, _ := section.Get(key)
					fmt.Fprintf(out, "%s=%s\n", key, v.String())
				}
				return nil
			}

			return fmt.Errorf("key not found: %s", path)
		},
	}

	return cmd
}

type valueOutput struct {
	Key   string      `json:"key,omitempty"`
	Input string      `json:"input,omitempty"`
	Kind  string      `json:"kind"`
	Value value.Value `json:"value"`
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
