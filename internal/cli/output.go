package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/veilstore/veil/internal/datastore"
	"github.com/veilstore/veil/internal/rec"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failure (no rows matched, store error, etc.)
	ExitCommandError = 2 // Command error (bad flags, unreadable database, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// silentExit returns an ExitError carrying only a code, for commands that
// have already reported the failure on their own output.
func silentExit(code int) *ExitError {
	return &ExitError{Code: code}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// Envelope outputs an operation's response envelope in the configured format.
// JSON mode emits the {"status": ..., "value": ...} envelope verbatim.
func (f *OutputFormatter) Envelope(resp datastore.Response) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(resp)
	}

	switch resp.Kind {
	case datastore.KindRecord:
		record, _ := resp.Record()
		fmt.Fprintln(f.Writer, formatRecord(record))
	case datastore.KindRecords:
		records, _ := resp.Records()
		fmt.Fprintf(f.Writer, "%d matched\n", len(records))
		for i, r := range records {
			fmt.Fprintf(f.Writer, "%d. %s\n", i+1, formatRecord(r))
		}
	case datastore.KindCount:
		n, _ := resp.Count()
		fmt.Fprintf(f.Writer, "rows affected: %d\n", n)
	default:
		fmt.Fprintln(f.Writer, "no match")
	}
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(err error) error {
	code := "ERROR"
	var se *rec.StoreError
	if errors.As(err, &se) {
		code = string(se.Code)
	}
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(map[string]any{
			"status": false,
			"error":  map[string]string{"code": code, "message": err.Error()},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %v\n", code, err)
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// formatRecord renders a record as "field=value" pairs in field order.
func formatRecord(r *rec.Record) string {
	parts := make([]string, 0, r.Len())
	for _, name := range r.Fields() {
		v, _ := r.Get(name)
		parts = append(parts, fmt.Sprintf("%s=%s", name, rec.FormatValue(v)))
	}
	return strings.Join(parts, " ")
}
