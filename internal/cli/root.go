package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veilstore/veil/internal/codec"
	"github.com/veilstore/veil/internal/datastore"
	"github.com/veilstore/veil/internal/rowstore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DB         string // path to the SQLite database file
	Mode       string // "plain" | "encoded" | "encrypted"
	Secret     string // secret for encrypted mode
	Randomized bool   // randomized nonces (encrypted mode only)
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the veil CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "veil",
		Short: "veil - a query-by-example record store with at-rest value protection",
		Long: `veil stores records in SQLite tables and transparently transforms field
values to and from a configured at-rest representation: plain, base64-encoded,
or AES-256-GCM encrypted. Matching is query-by-example: a partial record is
the predicate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if _, err := opts.Config(); err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "veil.db", "path to the database file")
	cmd.PersistentFlags().StringVar(&opts.Mode, "mode", "plain", "at-rest value mode (plain|encoded|encrypted)")
	cmd.PersistentFlags().StringVar(&opts.Secret, "secret", "", "secret for encrypted mode")
	cmd.PersistentFlags().BoolVar(&opts.Randomized, "randomized", false, "randomized encryption nonces (slower matching)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewTableCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewFetchCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))

	return cmd
}

// Config builds the value-transformation configuration from the global flags.
func (o *RootOptions) Config() (codec.Config, error) {
	mode, err := codec.ParseMode(o.Mode)
	if err != nil {
		return codec.Config{}, err
	}
	cfg := codec.Config{
		Mode:          mode,
		Secret:        o.Secret,
		Deterministic: !o.Randomized,
	}
	if err := cfg.Validate(); err != nil {
		return codec.Config{}, err
	}
	return cfg, nil
}

// OpenStore opens the database named by --db and wraps it in a DataStore
// configured from the global flags. The caller closes the returned store.
func (o *RootOptions) OpenStore() (*datastore.DataStore, *rowstore.Store, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, nil, err
	}
	rows, err := rowstore.Open(o.DB)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("opening database %s", o.DB), err)
	}
	ds, err := datastore.New(cfg, rows)
	if err != nil {
		rows.Close()
		return nil, nil, err
	}
	return ds, rows, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
