package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilstore/veil/internal/datastore"
	"github.com/veilstore/veil/internal/rec"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(silentExit(ExitFailure)))

	wrapped := WrapExitError(ExitCommandError, "outer", errors.New("inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.Equal(t, "outer: inner", wrapped.Error())
}

func TestEnvelope_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	record := rec.NewRecord().Set("value", rec.Text("x")).Set("smth", rec.Int(2))
	require.NoError(t, f.Envelope(datastore.OfRecord(record)))
	assert.Equal(t, `{"status":true,"value":{"value":"x","smth":2}}`+"\n", buf.String())

	buf.Reset()
	require.NoError(t, f.Envelope(datastore.None()))
	assert.Equal(t, `{"status":false,"value":null}`+"\n", buf.String())
}

func TestEnvelope_Text(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	record := rec.NewRecord().Set("value", rec.Text("x")).Set("smth", rec.Int(2))
	require.NoError(t, f.Envelope(datastore.OfRecord(record)))
	assert.Equal(t, "value=x smth=2\n", buf.String())

	buf.Reset()
	require.NoError(t, f.Envelope(datastore.OfRecords([]*rec.Record{record})))
	assert.Equal(t, "1 matched\n1. value=x smth=2\n", buf.String())

	buf.Reset()
	require.NoError(t, f.Envelope(datastore.OfCount(3)))
	assert.Equal(t, "rows affected: 3\n", buf.String())

	buf.Reset()
	require.NoError(t, f.Envelope(datastore.None()))
	assert.Equal(t, "no match\n", buf.String())
}

func TestError_CarriesStoreErrorCode(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Error(rec.NewInvalidPredicate("empty predicate")))
	assert.Contains(t, buf.String(), "INVALID_PREDICATE")
}

func TestVerboseLog(t *testing.T) {
	var out, diag bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &diag, Verbose: true}

	f.VerboseLog("opened %s", "veil.db")
	assert.Empty(t, out.String(), "verbose output must not corrupt JSON stream")
	assert.Equal(t, "opened veil.db\n", diag.String())

	f.Verbose = false
	diag.Reset()
	f.VerboseLog("hidden")
	assert.Empty(t, diag.String())
}
