package cli

import (
	"github.com/spf13/cobra"

	"github.com/veilstore/veil/internal/datastore"
)

// FetchOptions holds flags for the fetch command.
type FetchOptions struct {
	*RootOptions
	One bool
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FetchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fetch TABLE field=value...",
		Short: "Fetch records matching a query-by-example predicate",
		Long: `Fetch the records matching a predicate. The predicate is a partial
record: a row matches when every named field compares equal.

Example:
  veil fetch items value=smthfortest
  veil fetch items smth=69420 --one`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(opts, args[0], args[1:], cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.One, "one", false, "return only the first match in row order")
	return cmd
}

func runFetch(opts *FetchOptions, table string, assignments []string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	predicate, err := ParseAssignments(assignments)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid predicate", err)
	}

	ds, rows, err := opts.OpenStore()
	if err != nil {
		return err
	}
	defer rows.Close()

	mode := datastore.FetchAll
	if opts.One {
		mode = datastore.FetchOne
	}
	resp, err := ds.Fetch(cmd.Context(), table, predicate, mode)
	if err != nil {
		out.Error(err)
		return silentExit(ExitFailure)
	}
	if err := out.Envelope(resp); err != nil {
		return err
	}
	if !resp.Status {
		return silentExit(ExitFailure)
	}
	return nil
}
