package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNotFound = errors.New("libpython not found")

func newFindCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "Print the path of the Python shared library",
		Long: `Print the canonical path of the shared library of the configured interpreter.

The command fails when no library can be found, e.g. because the interpreter
was built without a shared library.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.find(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
