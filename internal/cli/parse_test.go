package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilstore/veil/internal/rec"
)

func TestParseAssignments_Typing(t *testing.T) {
	r, err := ParseAssignments([]string{
		"name=widget",
		"count=42",
		"price=9.5",
		"active=true",
		"retired=false",
		"note=null",
		"label=text:123",
	})
	require.NoError(t, err)

	cases := map[string]rec.Value{
		"name":    rec.Text("widget"),
		"count":   rec.Int(42),
		"price":   rec.Real(9.5),
		"active":  rec.Bool(true),
		"retired": rec.Bool(false),
		"note":    rec.Null{},
		"label":   rec.Text("123"),
	}
	for name, want := range cases {
		got, ok := r.Get(name)
		require.True(t, ok, "field %s missing", name)
		assert.True(t, rec.Equal(got, want), "field %s = %v, want %v", name, got, want)
	}
}

func TestParseAssignments_ValueContainingEquals(t *testing.T) {
	r, err := ParseAssignments([]string{"expr=a=b"})
	require.NoError(t, err)
	got, _ := r.Get("expr")
	assert.True(t, rec.Equal(got, rec.Text("a=b")))
}

func TestParseAssignments_Errors(t *testing.T) {
	_, err := ParseAssignments([]string{"noequals"})
	assert.Error(t, err)

	_, err = ParseAssignments([]string{"=value"})
	assert.Error(t, err)
}

func TestParseAssignments_Empty(t *testing.T) {
	r, err := ParseAssignments(nil)
	require.NoError(t, err)
	assert.Zero(t, r.Len())
}
