package rec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() TableSchema {
	return TableSchema{
		Name: "users",
		Columns: []Column{
			{Name: "name", DeclaredType: "TEXT"},
			{Name: "age", DeclaredType: "INT"},
			{Name: "active", DeclaredType: "BOOLEAN"},
		},
	}
}

func TestAffinity(t *testing.T) {
	cases := map[string]string{
		"TEXT":             AffinityText,
		"VARCHAR(20)":      AffinityText,
		"INT":              AffinityInteger,
		"INTEGER":          AffinityInteger,
		"BIGINT":           AffinityInteger,
		"UNSIGNED BIG INT": AffinityInteger,
		"REAL":             AffinityReal,
		"DOUBLE PRECISION": AffinityReal,
		"FLOAT":            AffinityReal,
		"BOOLEAN":          AffinityBoolean,
		"bool":             AffinityBoolean,
		"BLOB":             AffinityBlob,
		"":                 AffinityBlob,
	}
	for declared, want := range cases {
		assert.Equal(t, want, Affinity(declared), "declared %q", declared)
	}
}

func TestValidateExact_OK(t *testing.T) {
	r := NewRecord().
		Set("name", Text("ada")).
		Set("age", Int(36)).
		Set("active", Bool(true))
	assert.NoError(t, testSchema().ValidateExact(r))
}

func TestValidateExact_MissingColumn(t *testing.T) {
	r := NewRecord().Set("name", Text("ada"))
	err := testSchema().ValidateExact(r)
	require.Error(t, err)
	assert.True(t, IsSchemaMismatch(err))
}

func TestValidateExact_UnknownField(t *testing.T) {
	r := NewRecord().
		Set("name", Text("ada")).
		Set("age", Int(36)).
		Set("active", Bool(true)).
		Set("ghost", Int(1))
	err := testSchema().ValidateExact(r)
	require.Error(t, err)
	assert.True(t, IsSchemaMismatch(err))

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ghost", se.Field)
	assert.Equal(t, "users", se.Table)
}

func TestValidateSubset(t *testing.T) {
	s := testSchema()
	assert.NoError(t, s.ValidateSubset([]string{"name"}))
	assert.NoError(t, s.ValidateSubset([]string{"age", "active"}))
	assert.NoError(t, s.ValidateSubset(nil))

	err := s.ValidateSubset([]string{"ghost"})
	require.Error(t, err)
	assert.True(t, IsSchemaMismatch(err))
}

func TestColumnLookupNormalizes(t *testing.T) {
	s := TableSchema{Name: "t", Columns: []Column{{Name: NormalizeName("caf\u00e9"), DeclaredType: "TEXT"}}}
	_, ok := s.Column("cafe\u0301") // decomposed form
	assert.True(t, ok)
}
