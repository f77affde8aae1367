package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/idelchi/dupedirs/internal/dupedirs"
	"github.com/idelchi/dupedirs/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// allowedOutputs lists the accepted --output values.
//
//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"text", "json", "paths"}

// Command builds the root command. args overrides os.Args[1:] when non-nil.
func (c CLI) Command(args []string) *cobra.Command {
	var (
		options    dupedirs.Options
		minSizeStr string
	)

	cmd := &cobra.Command{
		Use:   "dupedirs [flags] [path]",
		Short: "Report directories that are probably identical",
		Long: heredoc.Doc(`
			dupedirs reports sets of directories that are probably identical.

			Only leaf directories (directories without subdirectories) are compared.
			A leaf is fingerprinted from the names and sizes of the files it directly
			contains that are at least --min-size bytes large; file contents are never read.
			Leaves sharing a fingerprint are printed together, sorted case-insensitively.

			Positional Arguments:
			  path    Directory to scan. Defaults to the current directory.

			The '--init' flag prints a zsh function that pipes '--output paths' through 'fzf'
			and changes into the selected directory.
		`),
		Version:       c.version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Integration {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			if !slices.Contains(allowedOutputs, options.Output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
			}

			size, err := humanize.ParseBytes(minSizeStr)
			if err != nil {
				return fmt.Errorf("invalid min-size: %w", err)
			}

			if size == 0 {
				return fmt.Errorf("invalid min-size %q: must be positive", minSizeStr)
			}

			options.MinSize = int64(size) //nolint:gosec // Size conversion from humanize is safe

			if len(args) == 0 {
				options.Path = "."
			} else {
				options.Path = args[0]
			}

			// Arguments are valid from here on; further errors are not usage errors.
			cmd.SilenceUsage = true

			return logic(cmd, options)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.CountVarP(&options.Verbosity, "verbose", "v", "Emit informational messages (twice for debug)")
	flags.StringVar(&minSizeStr, "min-size", "100KiB", "Minimum size of a file to count towards a fingerprint")
	flags.StringSliceVarP(&options.Excludes, "exclude", "e", nil, "Regex patterns to exclude")
	flags.StringVarP(&options.Output, "output", "o", "text", "Output format: text, json or paths")
	flags.IntVarP(&options.Workers, "workers", "w", runtime.NumCPU(), "Number of concurrent walkers")
	flags.BoolVarP(&options.Integration, "init", "i", false, "Output init script for shell usage")

	if args != nil {
		cmd.SetArgs(args)
	}

	return cmd
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	cmd := c.Command(nil)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: error: %v\n", filepath.Base(os.Args[0]), err)

		return err
	}

	return nil
}
