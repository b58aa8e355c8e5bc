package cli

import (
	"fmt"
	"iter"

	"github.com/spf13/cobra"
)

func newCandidatesCmd(opts *options) *cobra.Command {
	var existing bool
	var suffix string

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List the paths searched for the Python shared library",
		Long: `List, in priority order, every path the search considers. With --existing only
the canonical paths of candidates that exist are listed; the search then uses the
platform suffix, so --suffix cannot be combined with --existing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := opts.probe(cmd.Context())
			if err != nil {
				return err
			}
			if suffix == "" {
				suffix = profile.Suffix
			}

			l := opts.locator(profile)
			var paths iter.Seq[string]
			if existing {
				paths = l.FindExisting()
			} else {
				paths = l.CandidatePaths(suffix)
			}

			out := cmd.OutOrStdout()
			for path := range paths {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&existing, "existing", false, "list only candidates that exist")
	cmd.Flags().StringVar(&suffix, "suffix", "", "library suffix of listed candidates (default is the platform suffix)")
	cmd.MarkFlagsMutuallyExclusive("existing", "suffix")

	return cmd
}
