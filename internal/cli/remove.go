package cli

import (
	"github.com/spf13/cobra"

	"github.com/veilstore/veil/internal/datastore"
)

// RemoveOptions holds flags for the remove command.
type RemoveOptions struct {
	*RootOptions
	One bool
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remove TABLE field=value...",
		Short: "Remove records matching a query-by-example predicate",
		Long: `Remove the records matching a predicate.

Example:
  veil remove items value=smthfortest
  veil remove items smth=69420 --one`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(opts, args[0], args[1:], cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.One, "one", false, "remove only the first match in row order")
	return cmd
}

func runRemove(opts *RemoveOptions, table string, assignments []string, cmd *cobra.Command) error {
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
	resp, err := ds.Remove(cmd.Context(), table, predicate, mode)
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
