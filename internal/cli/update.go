package cli

import (
	"github.com/spf13/cobra"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Where []string
	Set   []string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update TABLE --where field=value... --set field=value...",
		Short: "Update every record matching a predicate",
		Long: `Update the records matching a predicate. Fields not named by --set are
preserved unchanged.

Example:
  veil update items --where value=smthfortest --set value=amogus --set smth=123456`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(opts, args[0], cmd)
		},
	}
	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "predicate field=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "new field=value (repeatable)")
	cmd.MarkFlagRequired("where")
	cmd.MarkFlagRequired("set")
	return cmd
}

func runUpdate(opts *UpdateOptions, table string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	predicate, err := ParseAssignments(opts.Where)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --where", err)
	}
	newValues, err := ParseAssignments(opts.Set)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --set", err)
	}

	ds, rows, err := opts.OpenStore()
	if err != nil {
		return err
	}
	defer rows.Close()

	resp, err := ds.Update(cmd.Context(), table, predicate, newValues)
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
