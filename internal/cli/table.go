package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veilstore/veil/internal/rec"
)

// TableOptions holds flags for the table subcommands.
type TableOptions struct {
	*RootOptions
	SchemaDir string
}

// NewTableCommand creates the table command group.
func NewTableCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TableOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Create, list, and drop tables",
	}
	cmd.AddCommand(newTableCreateCommand(opts))
	cmd.AddCommand(newTableListCommand(opts))
	cmd.AddCommand(newTableDropCommand(opts))
	return cmd
}

func newTableCreateCommand(opts *TableOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [NAME col:type...]",
		Short: "Create tables from column arguments or CUE descriptors",
		Long: `Create tables from inline column arguments or a directory of CUE
table descriptors.

Examples:
  veil table create items value:TEXT smth:INT
  veil table create --schema ./schemas`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTableCreate(opts, args, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.SchemaDir, "schema", "", "directory of CUE table descriptors")
	return cmd
}

func newTableListCommand(opts *TableOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List tables in the database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTableList(opts, cmd)
		},
	}
}

func newTableDropCommand(opts *TableOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "drop NAME",
		Short:         "Drop a table and all its rows",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTableDrop(opts, args[0], cmd)
		},
	}
}

func runTableCreate(opts *TableOptions, args []string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	var schemas []rec.TableSchema
	switch {
	case opts.SchemaDir != "":
		if len(args) > 0 {
			return NewExitError(ExitCommandError, "use either --schema or inline columns, not both")
		}
		loaded, errs := LoadSchemas(opts.SchemaDir)
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", e)
			}
			return NewExitError(ExitCommandError, fmt.Sprintf("%d schema error(s) in %s", len(errs), opts.SchemaDir))
		}
		schemas = loaded
	case len(args) >= 2:
		schema, err := parseInlineSchema(args)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid table definition", err)
		}
		schemas = []rec.TableSchema{schema}
	default:
		return NewExitError(ExitCommandError, "expected NAME col:type... or --schema DIR")
	}

	ds, rows, err := opts.OpenStore()
	if err != nil {
		return err
	}
	defer rows.Close()

	ctx := cmd.Context()
	for _, schema := range schemas {
		if err := ds.CreateTable(ctx, schema); err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("creating table %s", schema.Name), err)
		}
		out.VerboseLog("created table %s (%d columns)", schema.Name, len(schema.Columns))
	}
	names := make([]string, len(schemas))
	for i, s := range schemas {
		names[i] = s.Name
	}
	fmt.Fprintf(out.Writer, "created: %s\n", strings.Join(names, ", "))
	return nil
}

func runTableList(opts *TableOptions, cmd *cobra.Command) error {
	ds, rows, err := opts.OpenStore()
	if err != nil {
		return err
	}
	defer rows.Close()

	names, err := ds.Tables(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "listing tables", err)
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runTableDrop(opts *TableOptions, name string, cmd *cobra.Command) error {
	ds, rows, err := opts.OpenStore()
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := ds.DropTable(cmd.Context(), name); err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("dropping table %s", name), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "dropped: %s\n", name)
	return nil
}

// parseInlineSchema turns ["items", "value:TEXT", "smth:INT"] into a schema.
func parseInlineSchema(args []string) (rec.TableSchema, error) {
	schema := rec.TableSchema{Name: args[0]}
	for _, arg := range args[1:] {
		name, declared, _ := strings.Cut(arg, ":")
		if name == "" {
			return rec.TableSchema{}, fmt.Errorf("expected col:type, got %q", arg)
		}
		schema.Columns = append(schema.Columns, rec.Column{
			Name:         rec.NormalizeName(name),
			DeclaredType: declared,
		})
	}
	return schema, nil
}
