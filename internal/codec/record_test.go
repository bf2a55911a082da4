package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilstore/veil/internal/rec"
)

func itemsSchema() rec.TableSchema {
	return rec.TableSchema{
		Name: "items",
		Columns: []rec.Column{
			{Name: "value", DeclaredType: "TEXT"},
			{Name: "smth", DeclaredType: "INT"},
		},
	}
}

func TestEncodeRecord_RoundTrip(t *testing.T) {
	for name, cfg := range allConfigs() {
		t.Run(name, func(t *testing.T) {
			c, err := New(cfg)
			require.NoError(t, err)

			record := rec.NewRecord().
				Set("value", rec.Text("smthfortest")).
				Set("smth", rec.Int(69420))

			stored, err := c.EncodeRecord(itemsSchema(), record)
			require.NoError(t, err)

			decoded, err := c.DecodeRecord(itemsSchema(), stored)
			require.NoError(t, err)
			assert.True(t, record.Equal(decoded))
		})
	}
}

func TestEncodeRecord_SchemaMismatch(t *testing.T) {
	c, err := New(Config{Mode: ModePlain})
	require.NoError(t, err)

	missing := rec.NewRecord().Set("value", rec.Text("x"))
	_, err = c.EncodeRecord(itemsSchema(), missing)
	require.Error(t, err)
	assert.True(t, rec.IsSchemaMismatch(err))

	unknown := rec.NewRecord().
		Set("value", rec.Text("x")).
		Set("smth", rec.Int(1)).
		Set("ghost", rec.Int(2))
	_, err = c.EncodeRecord(itemsSchema(), unknown)
	require.Error(t, err)
	assert.True(t, rec.IsSchemaMismatch(err))
}

func TestEncodePartial_SubsetOnly(t *testing.T) {
	c, err := New(Config{Mode: ModeEncoded})
	require.NoError(t, err)

	partial := rec.NewRecord().Set("smth", rec.Int(69420))
	stored, err := c.EncodePartial(itemsSchema(), partial)
	require.NoError(t, err)
	assert.Equal(t, []string{"smth"}, stored.Fields())

	// The partial encoding must agree with the full-record encoding so
	// engine-level equality matching lines up with stored rows.
	full := rec.NewRecord().
		Set("value", rec.Text("v")).
		Set("smth", rec.Int(69420))
	storedFull, err := c.EncodeRecord(itemsSchema(), full)
	require.NoError(t, err)

	want, _ := storedFull.Get("smth")
	got, _ := stored.Get("smth")
	assert.True(t, rec.Equal(want, got))
}

func TestEncodePartial_UnknownField(t *testing.T) {
	c, err := New(Config{Mode: ModeEncoded})
	require.NoError(t, err)

	_, err = c.EncodePartial(itemsSchema(), rec.NewRecord().Set("ghost", rec.Int(1)))
	require.Error(t, err)
	assert.True(t, rec.IsSchemaMismatch(err))
}

func TestRecordNullFieldsPassThrough(t *testing.T) {
	schema := rec.TableSchema{
		Name: "t",
		Columns: []rec.Column{
			{Name: "a", DeclaredType: "TEXT"},
			{Name: "b", DeclaredType: "TEXT"},
		},
	}
	c, err := New(Config{Mode: ModeEncrypted, Secret: "k", Deterministic: true})
	require.NoError(t, err)

	record := rec.NewRecord().
		Set("a", rec.Null{}).
		Set("b", rec.Text("x"))

	stored, err := c.EncodeRecord(schema, record)
	require.NoError(t, err)

	a, _ := stored.Get("a")
	assert.True(t, rec.IsNull(a), "null must not be encrypted")

	decoded, err := c.DecodeRecord(schema, stored)
	require.NoError(t, err)
	assert.True(t, record.Equal(decoded))
}

func TestDecodeRecord_MissingColumn(t *testing.T) {
	c, err := New(Config{Mode: ModePlain})
	require.NoError(t, err)

	_, err = c.DecodeRecord(itemsSchema(), rec.NewRecord().Set("value", rec.Text("x")))
	require.Error(t, err)
	assert.True(t, rec.IsSchemaMismatch(err))
}
