package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const sampleConfig = `# %s configuration
#
# KEY is VALUE;  assignments, one per line, ending in a semicolon.
# [name]         starts a section; redeclaring it starts it over.

APP_NAME is "%s";
APP_ENV is env("APP_ENV");
INSTANCE_ID is randomUUIDv7();
PORT is 3000;
DEBUG is false;

[database]
HOST is env("DB_HOST");
PORT is 5432;
USER is toLowerCase("ADMIN");
`

func newInitCommand(opts *options) *cobra.Command {
	var (
		force bool
		name  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample .razan file",
		Example: `  # Create .razan in the current directory
  razan init

  # Overwrite an existing file
  razan init --force --name billing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug().
				Str("file", opts.file).
				Bool("force", force).
				Msg("Initializing configuration")

			if !force {
				if _, err := os.Stat(opts.file); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", opts.file)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			content := fmt.Sprintf(sampleConfig, name, name)
			if err := os.WriteFile(opts.file, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", opts.file, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", opts.file)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().StringVar(&name, "name", "app", "application name written to APP_NAME")

	return cmd
}
