package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamkeys/libpython"
)

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [library]",
		Short: "Load the Python shared library and report its version",
		Long: `Load the Python shared library and report the version it was built as and the
file the dynamic linker mapped. Without an argument the library of the
configured interpreter is inspected and its version is compared with the
interpreter's.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var path string
			var profile *libpython.Profile
			if len(args) == 1 {
				path = args[0]
			} else {
				p, err := opts.probe(ctx)
				if err != nil {
					return err
				}
				found, ok := opts.locator(p).Find()
				if !ok {
					return fmt.Errorf("%w for %s", errNotFound, opts.cfg.Interpreter)
				}
				path, profile = found, &p
			}

			rt, err := libpython.Inspect(path)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", path, err)
			}
			if profile != nil && !rt.Matches(*profile) {
				opts.logger.Warn("library version differs from interpreter",
					"library", rt.Version,
					"interpreter", profile.VersionString(),
				)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path: %s\n", rt.Path)
			fmt.Fprintf(out, "Version: %s\n", rt.Version)
			return nil
		},
	}
}
