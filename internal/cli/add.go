package cli

import (
	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add TABLE field=value...",
		Short: "Add a record to a table",
		Long: `Add a record to a table. Every column must be assigned a value.

Example:
  veil add items value=smthfortest smth=69420`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, args[0], args[1:], cmd)
		},
	}
}

func runAdd(opts *RootOptions, table string, assignments []string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	record, err := ParseAssignments(assignments)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid record", err)
	}

	ds, rows, err := opts.OpenStore()
	if err != nil {
		return err
	}
	defer rows.Close()

	resp, err := ds.Add(cmd.Context(), table, record)
	if err != nil {
		out.Error(err)
		return silentExit(ExitFailure)
	}
	out.VerboseLog("added 1 row to %s", table)
	return out.Envelope(resp)
}
